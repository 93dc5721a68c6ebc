package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/textutil"
	"github.com/meilisearch/meilisearch-go"
)

const jobsIndex = "jobs"

// ErrIndexUnavailable is returned by a disabled index; callers fall back to the store.
var ErrIndexUnavailable = errors.New("search index is not configured")

// JobIndex keeps approved jobs searchable.
type JobIndex interface {
	IndexJob(ctx context.Context, job *entity.Job) error
	RemoveJobs(ctx context.Context, ids ...uint) error
	// SearchJobIDs returns ids of matching jobs, best match first.
	SearchJobIDs(ctx context.Context, query string, limit int) ([]uint, error)
}

type meiliJobIndex struct {
	client meilisearch.ServiceManager
}

func NewMeiliJobIndex(client meilisearch.ServiceManager) JobIndex {
	s := &meiliJobIndex{client: client}
	s.initIndex()
	return s
}

func (s *meiliJobIndex) initIndex() {
	searchable := []string{"title", "company", "required_skills", "description"}
	if _, err := s.client.Index(jobsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		logger.Warn().Err(err).Msg("failed to update jobs searchable attributes")
	}

	filterable := []interface{}{"status", "recruiter_id"}
	if _, err := s.client.Index(jobsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.Warn().Err(err).Msg("failed to update jobs filterable attributes")
	}

	logger.Info().Str("index", jobsIndex).Msg("meilisearch index initialized")
}

type meiliJobDoc struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Description    string `json:"description"`
	RequiredSkills string `json:"required_skills"`
	PostingDate    string `json:"posting_date"`
	Status         string `json:"status"`
	RecruiterID    uint   `json:"recruiter_id"`
}

// newJobDocument builds the document stored for job.
func newJobDocument(job *entity.Job) meiliJobDoc {
	return meiliJobDoc{
		ID:             job.ID,
		Title:          textutil.Collapse(job.Title),
		Company:        textutil.Collapse(job.Company),
		Description:    textutil.Collapse(job.Description),
		RequiredSkills: textutil.Collapse(job.RequiredSkills),
		PostingDate:    job.PostingDate,
		Status:         job.Status.String(),
		RecruiterID:    job.RecruiterID,
	}
}

// IndexJob writes approved jobs and removes any other from the index.
func (s *meiliJobIndex) IndexJob(ctx context.Context, job *entity.Job) error {
	if !job.IsApproved() {
		return s.RemoveJobs(ctx, job.ID)
	}

	task, err := s.client.Index(jobsIndex).AddDocuments([]meiliJobDoc{newJobDocument(job)}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index job %d: %w", job.ID, err)
	}

	logger.Debug().Uint("job_id", job.ID).Int64("task_uid", task.TaskUID).Msg("job indexed")
	return nil
}

func (s *meiliJobIndex) RemoveJobs(_ context.Context, ids ...uint) error {
	for _, id := range ids {
		if _, err := s.client.Index(jobsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
			return fmt.Errorf("failed to remove job %d from index: %w", id, err)
		}
	}
	return nil
}

type rawSearchResponse struct {
	Hits []struct {
		ID uint `json:"id"`
	} `json:"hits"`
}

func (s *meiliJobIndex) SearchJobIDs(_ context.Context, query string, limit int) ([]uint, error) {
	raw, err := s.client.Index(jobsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		Filter:               "status = approved",
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(*raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uint, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// NoopIndex is used when no search backend is configured.
type NoopIndex struct{}

func (NoopIndex) IndexJob(context.Context, *entity.Job) error { return nil }

func (NoopIndex) RemoveJobs(context.Context, ...uint) error { return nil }

func (NoopIndex) SearchJobIDs(context.Context, string, int) ([]uint, error) {
	return nil, ErrIndexUnavailable
}

func strPtr(s string) *string {
	return &s
}
