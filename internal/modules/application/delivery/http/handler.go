package handler

import (
	"net/http"

	"anoa.com/jobboard/internal/middleware"
	application "anoa.com/jobboard/internal/modules/application/service"
	"anoa.com/jobboard/pkg/response"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	service application.ApplicationService
}

func NewApplicationHandler(service application.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	app, err := h.service.Apply(c.Request.Context(), middleware.Principal(c), jobID)
	if err != nil {
		middleware.SetRetryAfter(c, err)
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusCreated, response.Group("application",
		response.Field("id", app.ID),
		response.Field("job_id", app.JobID),
		response.Field("status", app.Status),
	))
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	apps, err := h.service.ListForJob(c.Request.Context(), middleware.Principal(c), jobID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	items := make([]response.Node, 0, len(apps))
	for _, app := range apps {
		fields := []response.Node{
			response.Field("id", app.ID),
			response.Field("user_id", app.UserID),
			response.Field("status", app.Status),
		}
		if app.User != nil && app.User.Profile != nil {
			fields = append(fields,
				response.Field("summary", app.User.Profile.Summary),
				response.Field("skills", app.User.Profile.Skills),
			)
		}
		items = append(items, response.Group("application", fields...))
	}

	response.Render(c, http.StatusOK, response.Group("applications", items...))
}

func (h *ApplicationHandler) ListForUser(c *gin.Context) {
	apps, err := h.service.ListForUser(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	items := make([]response.Node, 0, len(apps))
	for _, app := range apps {
		fields := []response.Node{response.Field("id", app.ID)}
		if app.Job != nil {
			fields = append(fields,
				response.Field("job_title", app.Job.Title),
				response.Field("company", app.Job.Company),
			)
		}
		fields = append(fields, response.Field("status", app.Status))
		items = append(items, response.Group("application", fields...))
	}

	response.Render(c, http.StatusOK, response.Group("applications", items...))
}

func (h *ApplicationHandler) Approve(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.Approve(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("application",
		response.Field("id", id),
		response.Field("status", status),
	))
}
