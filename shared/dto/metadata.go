package dto

import (
	"time"

	"campus/shared/constant"
	"campus/shared/model"
	"campus/shared/timezone"
)

// Metadata is the audit block embedded in response bodies. Timestamps are rendered in
// the application timezone and left empty when never set.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatAudit(source.CreatedAt),
		CreatedBy:  source.CreatedBy,
		ModifiedAt: formatAudit(source.ModifiedAt),
		ModifiedBy: source.ModifiedBy,
	}
}

func formatAudit(at time.Time) string {
	if at.IsZero() {
		return constant.Empty
	}

	return timezone.Format(at, constant.DateFormat)
}
