package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/metrics"
	"github.com/JaineelPandya/social-book/internal/middleware"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	ActivateUserLink(c *gin.Context)
	ActivateUser(c *gin.Context)
	ResendActivation(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	SearchAuthors(c *gin.Context)
}

type UserHandler struct {
	UserManager  managers.UserMgr
	TokenManager managers.ActivationTokenMgr
	MailManager  managers.MailMgr
	Validator    *utils.Validator
	Config       *config.Config
}

func NewUserHandler(userMgr managers.UserMgr, tokenMgr managers.ActivationTokenMgr, mailMgr managers.MailMgr, cfg *config.Config) UserHdl {
	return &UserHandler{
		UserManager:  userMgr,
		TokenManager: tokenMgr,
		MailManager:  mailMgr,
		Validator:    utils.GetValidator(),
		Config:       cfg,
	}
}

// RegisterUser creates an inactive account and sends the activation link. The account is kept even if the
// activation mail cannot be sent, the response tells the client whether it went out.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	registrationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	if handler.Config.VerifyEmailMX && !handler.Validator.VerifyEmail(registrationRequest.Email) {
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusUnprocessableEntity, errors.New("email unreachable"))
		return
	}

	publicVisibility := true
	if registrationRequest.PublicVisibility != nil {
		publicVisibility = *registrationRequest.PublicVisibility
	}

	user, err := handler.UserManager.CreateUser(c, registrationRequest.Email, registrationRequest.Password, schemas.ProfileFields{
		FirstName:        registrationRequest.FirstName,
		LastName:         registrationRequest.LastName,
		BirthYear:        registrationRequest.BirthYear,
		Address:          registrationRequest.Address,
		Bio:              registrationRequest.Bio,
		PublicVisibility: publicVisibility,
	})
	if err != nil {
		if errors.Is(err, managers.ErrDuplicateEmail) {
			utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusConflict, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	metrics.RegistrationsTotal.Inc()

	mailSent := handler.sendActivationMail(c, user)
	message := "Registration successful. Please check your email to activate your account."
	if !mailSent {
		message = "Registration successful, but the activation mail could not be sent. Please request a new one."
	}

	registrationDto := &schemas.RegistrationDTO{
		User:               *utils.CreateUserDto(user),
		ActivationMailSent: mailSent,
		Message:            message,
	}
	utils.WriteAndLogResponse(c, registrationDto, http.StatusCreated)
}

// ActivateUserLink handles the link of the activation mail and redirects the browser to the login page
// or back to the landing page if the link is not valid.
func (handler *UserHandler) ActivateUserLink(c *gin.Context) {
	_, err := handler.activate(c, c.Param(utils.UidParamKey), c.Param(utils.TokenParamKey))
	if err != nil {
		if errors.Is(err, managers.ErrTokenInvalid) {
			utils.LogMessageWithFields(c, "info", "Activation link rejected")
			c.Redirect(http.StatusFound, withQuery(handler.Config.LandingURL, "activation", "invalid"))
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusFound, withQuery(handler.Config.LoginURL, "activated", "1"))
}

// ActivateUser is the machine-readable variant of ActivateUserLink.
func (handler *UserHandler) ActivateUser(c *gin.Context) {
	activationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ActivationRequest)

	if _, err := handler.activate(c, activationRequest.Uid, activationRequest.Token); err != nil {
		if errors.Is(err, managers.ErrTokenInvalid) {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}

func (handler *UserHandler) activate(c *gin.Context, uid, token string) (*schemas.User, error) {
	user, err := handler.TokenManager.Validate(c, uid, token)
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err = handler.UserManager.MarkVerified(c, user.ID)
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ActivationsTotal.WithLabelValues("success").Inc()
	utils.LogMessageWithFields(c, "info", "Activated user "+user.ID.String())

	if err := handler.MailManager.SendConfirmationMail(user.Email, displayName(user)); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues("confirmation").Inc()
		utils.LogMessageWithFieldsAndError(c, "warn", "Confirmation mail could not be delivered", err)
	}
	return user, nil
}

// ResendActivation sends a new activation link to an account that is not verified yet.
func (handler *UserHandler) ResendActivation(c *gin.Context) {
	resendRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ResendActivationRequest)

	user, err := handler.UserManager.FindByEmail(c, resendRequest.Email)
	if err != nil {
		if errors.Is(err, managers.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if user.EmailVerified {
		utils.WriteAndLogError(c, schemas.UserAlreadyActivated, http.StatusAlreadyReported, errors.New("already activated"))
		return
	}

	if !handler.sendActivationMail(c, user) {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, managers.ErrNotificationDeliveryFailed)
		return
	}

	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}

func (handler *UserHandler) sendActivationMail(c *gin.Context, user *schemas.User) bool {
	token := handler.TokenManager.Issue(user)
	link := handler.Config.PublicBaseURL + token.Path()

	if err := handler.MailManager.SendActivationMail(user.Email, displayName(user), link); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues("activation").Inc()
		utils.LogMessageWithFieldsAndError(c, "warn", "Activation mail could not be delivered", err)
		return false
	}
	return true
}

// GetProfile returns the profile of the authenticated user.
func (handler *UserHandler) GetProfile(c *gin.Context) {
	utils.WriteAndLogResponse(c, utils.CreateUserDto(middleware.Principal(c)), http.StatusOK)
}

// UpdateProfile replaces the editable profile attributes of the authenticated user.
func (handler *UserHandler) UpdateProfile(c *gin.Context) {
	changeRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ChangeProfileRequest)
	principal := middleware.Principal(c)

	user, err := handler.UserManager.UpdateProfile(c, principal.ID, schemas.ProfileFields{
		FirstName:        changeRequest.FirstName,
		LastName:         changeRequest.LastName,
		BirthYear:        changeRequest.BirthYear,
		Address:          changeRequest.Address,
		Bio:              changeRequest.Bio,
		PublicVisibility: changeRequest.PublicVisibility,
	})
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateUserDto(user), http.StatusOK)
}

// SearchAuthors lists the public directory of active users, optionally filtered by q.
func (handler *UserHandler) SearchAuthors(c *gin.Context) {
	query := c.Query(utils.QueryParamKey)
	offset, limit := utils.ParsePaginationParams(c)

	users, total, err := handler.UserManager.ListDirectory(c, query, offset, limit)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreatePaginatedResponse(utils.CreateAuthorDtos(users), offset, limit, total), http.StatusOK)
}

func displayName(user *schemas.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Email
}

// withQuery appends a query parameter to a possibly relative URL.
func withQuery(target, key, value string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
