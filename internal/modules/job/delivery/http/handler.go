package handler

import (
	"fmt"
	"net/http"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/middleware"
	"anoa.com/jobboard/internal/modules/job/dto"
	job "anoa.com/jobboard/internal/modules/job/service"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/response"
	"anoa.com/jobboard/pkg/validator"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	service job.JobService
}

func NewJobHandler(service job.JobService) *JobHandler {
	return &JobHandler{service: service}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrValidation, "%s", validator.FormatValidationError(err)))
		return
	}

	created, err := h.service.CreateJob(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusCreated, response.Group("job",
		response.Field("id", created.ID),
		response.Field("title", created.Title),
		response.Field("company", created.Company),
		response.Field("status", created.Status),
	))
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrValidation, "%s", validator.FormatValidationError(err)))
		return
	}

	updated, err := h.service.UpdateJob(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("job",
		response.Field("id", updated.ID),
		response.Field("title", updated.Title),
		response.Field("status", updated.Status),
	))
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteJob(c.Request.Context(), middleware.Principal(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, fmt.Sprintf("Job %d deleted", id))
}

func (h *JobHandler) ApproveJob(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.ApproveJob(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, response.Group("job",
		response.Field("id", id),
		response.Field("status", status),
	))
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var filter dto.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "%s", err.Error()))
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	items := make([]response.Node, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, jobDocument(j))
	}
	response.Render(c, http.StatusOK, response.Group("jobs", items...))
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	j, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Render(c, http.StatusOK, jobDocument(j))
}

func jobDocument(j *entity.Job) response.Node {
	return response.Group("job",
		response.Field("id", j.ID),
		response.Field("title", j.Title),
		response.Field("company", j.Company),
		response.Field("description", j.Description),
		response.Field("required_skills", j.RequiredSkills),
		response.Field("posting_date", j.PostingDate),
		response.Field("status", j.Status),
		response.Field("recruiter_id", j.RecruiterID),
	)
}
