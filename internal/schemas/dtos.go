package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// UserDTO is a struct that represents a user response
// Age is derived from the birth year and omitted if unknown
type UserDTO struct {
	UserId           string `json:"userId"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	IsActive         bool   `json:"isActive"`
	EmailVerified    bool   `json:"emailVerified"`
	PublicVisibility bool   `json:"publicVisibility"`
	BirthYear        *int   `json:"birthYear,omitempty"`
	Age              *int   `json:"age,omitempty"`
	Address          string `json:"address,omitempty"`
	Bio              string `json:"bio,omitempty"`
	FollowersCount   int    `json:"followersCount"`
	FollowingCount   int    `json:"followingCount"`
}

// RegistrationDTO is a struct that represents a registration response
// ActivationMailSent tells the client whether the activation mail could be dispatched,
// the account is created either way
type RegistrationDTO struct {
	User               UserDTO `json:"user"`
	ActivationMailSent bool    `json:"activationMailSent"`
	Message            string  `json:"message"`
}

// CredentialDTO is a struct that represents an issued bearer credential
type CredentialDTO struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// SessionDTO is a struct that represents the response of a session exchange
type SessionDTO struct {
	Detail    string `json:"detail"`
	SessionId string `json:"sessionId"`
	UserId    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

// AuthorDTO is a struct that represents an entry of the authors & sellers directory
type AuthorDTO struct {
	UserId           string `json:"userId"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	IsActive         bool   `json:"isActive"`
	PublicVisibility bool   `json:"publicVisibility"`
}

// FileDTO is a struct that represents an uploaded file response
// FileURL points at the download route of the file
type FileDTO struct {
	FileId        string `json:"fileId"`
	OwnerId       string `json:"ownerId"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	FileURL       string `json:"fileUrl"`
	YearPublished *int   `json:"yearPublished,omitempty"`
	Cost          string `json:"cost"`
	Visibility    string `json:"visibility"`
	IsActive      bool   `json:"isActive"`
	FileSize      int64  `json:"fileSize"`
	DownloadCount int64  `json:"downloadCount"`
	UploadedAt    string `json:"uploadedAt"`
}

// EnrollmentDTO is a struct that represents the enrollment data of a file
type EnrollmentDTO struct {
	FileId    string `json:"fileId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	UpdatedAt string `json:"updatedAt"`
}

// DashboardDTO is a struct that represents the overview of the authenticated user
type DashboardDTO struct {
	ActiveFiles int `json:"activeFiles"`
	Enrollments int `json:"enrollments"`
}

// PaginatedResponse is a struct that represents a paginated response
// Records is the records of the response
// Pagination is the pagination of the response
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination interface{} `json:"pagination"`
}

// Pagination is a struct that represents a pagination
// Offset is the given offset of the pagination
// Limit is the given limit of the pagination
// Records is the total records of the pagination
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}

type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// UsersReportDTO summarises the accounts of the platform
type UsersReportDTO struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Active   int `json:"active"`
	Public   int `json:"public"`
}

// FilesReportDTO summarises the active uploaded files
// ByVisibility counts the active files per visibility value
type FilesReportDTO struct {
	ActiveFiles    int            `json:"activeFiles"`
	TotalBytes     int64          `json:"totalBytes"`
	TotalDownloads int64          `json:"totalDownloads"`
	ByVisibility   map[string]int `json:"byVisibility"`
}

// ReportDTO is the output of the reporting command
type ReportDTO struct {
	GeneratedAt   string         `json:"generatedAt"`
	Users         UsersReportDTO `json:"users"`
	Files         FilesReportDTO `json:"files"`
	RecentUploads []*FileDTO     `json:"recentUploads"`
}
