package managers

// Managers bundles the managers the HTTP layer depends on.
type Managers struct {
	Database    DatabaseMgr
	Users       UserMgr
	Tokens      ActivationTokenMgr
	Credentials CredentialMgr
	Sessions    SessionMgr
	Content     ContentMgr
	Mail        MailMgr
}
