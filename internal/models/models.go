package models

import (
	"time"
)

// Target is a named storage backend the provisioner can be pointed at.
// Endpoint may be empty for plain AWS; anything else (MinIO, MCG, generic
// S3-compatible) carries an explicit endpoint URL.
type Target struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Endpoint  string    `json:"endpoint"`
	AccessKey string    `json:"accessKey"`
	SecretKey string    `json:"-"`
	Region    string    `json:"region"`
	UseSSL    bool      `json:"useSSL"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProvisionRecord is one audit row per ensure-bucket run.
type ProvisionRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Bucket       string    `gorm:"index;not null" json:"bucket"`
	Endpoint     string    `json:"endpoint"`
	EndpointMode string    `json:"endpointMode"` // custom|default
	Outcome      string    `json:"outcome"`      // created|exists|error
	Error        string    `json:"error,omitempty"`
	RequestedBy  string    `json:"requestedBy"`
	DurationNs   int64     `json:"durationNs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// APIToken stores only the bcrypt hash; the plaintext is shown once at creation.
type APIToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
