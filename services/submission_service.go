package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Echtwork/echtwork-website/models"
	"github.com/google/uuid"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionStore persists premium intake forms keyed by id. Submissions are
// written exactly once and never mutated afterwards.
type SubmissionStore interface {
	Save(sub *models.Submission) error
	Get(id string) (*models.Submission, error)
}

// SubmissionService stores one JSON file per submission under Dir. File
// paths never leave this type.
type SubmissionService struct {
	Dir string
}

// NewSubmission builds a submission with a fresh identifier and creation
// timestamp from the intake form fields.
func NewSubmission(name, email, ziele, gesundheit, wuensche string) *models.Submission {
	return &models.Submission{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Ziele:      ziele,
		Gesundheit: gesundheit,
		Wuensche:   wuensche,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *SubmissionService) Save(sub *models.Submission) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create submissions dir: %w", err)
	}
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(sub.ID), data, 0o644)
}

func (s *SubmissionService) Get(id string) (*models.Submission, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	var sub models.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return &sub, nil
}

func (s *SubmissionService) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}
