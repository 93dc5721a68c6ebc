package handler

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/middleware"
	"anoa.com/jobboard/internal/modules/user/dto"
	user "anoa.com/jobboard/internal/modules/user/service"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/response"
	"anoa.com/jobboard/pkg/validator"
	"github.com/gin-gonic/gin"
)

const maxResumeSize = 10 << 20

type UserHandler struct {
	service user.UserService
}

func NewUserHandler(service user.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		message := validator.FormatValidationError(err)
		if validator.HasTag(err, "required") {
			message = "All fields are required"
		}
		response.ResponseError(c, apperror.Wrap(apperror.ErrValidation, "%s", message))
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusCreated, response.Group("user",
		response.Field("id", created.ID),
		response.Field("email", created.Email),
		response.Field("first_name", created.FirstName),
		response.Field("last_name", created.LastName),
		response.Field("date_of_birth", created.DateOfBirth),
		response.Field("address", created.Address),
		response.Field("role", created.Role),
		response.Field("status", created.Status),
	))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile := profileOf(u)
	fields := []response.Node{
		response.Field("id", u.ID),
		response.Field("email", u.Email),
		response.Field("first_name", u.FirstName),
		response.Field("last_name", u.LastName),
		response.Field("date_of_birth", u.DateOfBirth),
		response.Field("address", u.Address),
		response.Field("role", u.Role),
		response.Field("status", u.Status),
		response.Field("summary", profile.Summary),
		response.Field("skills", profile.Skills),
		response.Field("education", profile.Education),
		response.Field("experience", profile.Experience),
	}
	if profile.ResumeURL != nil {
		fields = append(fields, response.Field("resume_url", *profile.ResumeURL))
	}

	response.Render(c, http.StatusOK, response.Group("user", fields...))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrValidation, "%s", validator.FormatValidationError(err)))
		return
	}

	u, err := h.service.UpdateUser(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile := profileOf(u)
	response.Render(c, http.StatusOK, response.Group("user",
		response.Field("id", u.ID),
		response.Field("first_name", u.FirstName),
		response.Field("last_name", u.LastName),
		response.Field("date_of_birth", u.DateOfBirth),
		response.Field("address", u.Address),
		response.Field("summary", profile.Summary),
		response.Field("skills", profile.Skills),
		response.Field("education", profile.Education),
		response.Field("experience", profile.Experience),
	))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter dto.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "%s", err.Error()))
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	items := make([]response.Node, 0, len(users))
	for _, u := range users {
		fields := []response.Node{
			response.Field("id", u.ID),
			response.Field("email", u.Email),
			response.Field("first_name", u.FirstName),
			response.Field("last_name", u.LastName),
			response.Field("date_of_birth", u.DateOfBirth),
			response.Field("address", u.Address),
			response.Field("role", u.Role),
			response.Field("status", u.Status),
		}
		if u.Profile != nil {
			fields = append(fields, response.Group("profile",
				response.Field("summary", u.Profile.Summary),
				response.Field("skills", u.Profile.Skills),
				response.Field("education", u.Profile.Education),
				response.Field("experience", u.Profile.Experience),
			))
		}
		items = append(items, response.Group("user", fields...))
	}

	response.Render(c, http.StatusOK, response.Group("users", items...))
}

func (h *UserHandler) ApproveUser(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.ApproveUser(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("user",
		response.Field("id", id),
		response.Field("status", status),
	))
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	u, err := h.service.ChangeRole(c.Request.Context(), id, middleware.FormValue(c, "role"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("user",
		response.Field("id", u.ID),
		response.Field("role", u.Role),
	))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, fmt.Sprintf("User %d deleted successfully", id))
}

func (h *UserHandler) UploadResume(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = apperror.Wrap(apperror.ErrMissingParameter, "resume file is required")
		} else {
			err = apperror.Wrap(apperror.ErrBadRequest, "invalid multipart form")
		}
		response.ResponseError(c, err)
		return
	}
	if fileHeader.Size > maxResumeSize {
		response.ResponseError(c, apperror.Wrap(apperror.ErrValidation, "resume must be at most 10MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "failed to open resume file"))
		return
	}
	defer file.Close()

	u, err := h.service.UploadResume(c.Request.Context(), middleware.Principal(c), id, dto.ResumeFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("user",
		response.Field("id", u.ID),
		response.Field("resume_url", *u.Profile.ResumeURL),
	))
}

func profileOf(u *entity.User) entity.Profile {
	if u.Profile == nil {
		return entity.Profile{}
	}
	return *u.Profile
}
