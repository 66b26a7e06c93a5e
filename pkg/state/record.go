package state

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrServiceRequired is returned when the service name is empty
	ErrServiceRequired = errors.New("service name is required")

	// ErrTargetRequired is returned when the deploy target is empty
	ErrTargetRequired = errors.New("deploy target is required")
)

// DeployStatus represents the current state of a deploy
type DeployStatus string

const (
	StatusPending  DeployStatus = "Pending"
	StatusBuilding DeployStatus = "Building"
	StatusRunning  DeployStatus = "Running"
	StatusStopped  DeployStatus = "Stopped"
	StatusFailed   DeployStatus = "Failed"
)

// Deploy targets
const (
	TargetLocal      = "local"
	TargetKubernetes = "kubernetes"
)

// DeployRecord tracks one provisioned service instance
type DeployRecord struct {
	Service string `yaml:"service"`
	ID      string `yaml:"id"`

	// Target is where the service was provisioned: local or kubernetes
	Target    string `yaml:"target"`
	Namespace string `yaml:"namespace,omitempty"`

	// PID of the started process for local deploys
	PID int `yaml:"pid,omitempty"`

	// ManifestPath records which manifest produced this deploy; it is
	// re-read on every redeploy
	ManifestPath string `yaml:"manifestPath"`

	Status    DeployStatus `yaml:"status"`
	CreatedAt time.Time    `yaml:"createdAt"`
	UpdatedAt time.Time    `yaml:"updatedAt"`
}

// NewRecord creates a pending deploy record with a fresh ID
func NewRecord(service, target, manifestPath string) *DeployRecord {
	now := time.Now()
	return &DeployRecord{
		Service:      service,
		ID:           uuid.NewString(),
		Target:       target,
		ManifestPath: manifestPath,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks if the deploy record is valid
func (r *DeployRecord) Validate() error {
	if r.Service == "" {
		return ErrServiceRequired
	}
	if r.Target == "" {
		return ErrTargetRequired
	}
	return nil
}

// IsRunning returns true if the deploy is in Running state
func (r *DeployRecord) IsRunning() bool {
	return r.Status == StatusRunning
}

// UpdateStatus updates the deploy status and timestamp
func (r *DeployRecord) UpdateStatus(status DeployStatus) {
	r.Status = status
	r.UpdatedAt = time.Now()
}
