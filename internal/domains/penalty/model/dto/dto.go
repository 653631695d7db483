package dto

import (
	"time"

	"campus/internal/domains/penalty/model"
	"campus/shared"
	"campus/shared/constant"
	gModel "campus/shared/model"
)

type IssueStrikeRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

func (r *IssueStrikeRequest) ToModel(userID, issuer string, at time.Time, ttl time.Duration) model.Strike {
	return model.Strike{
		UserID:    userID,
		Reason:    r.Reason,
		ExpiresAt: at.Add(ttl),
		Metadata:  gModel.NewMetadata(issuer, at),
	}
}

type StrikeResponse struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
	ExpiresAt string `json:"expires_at"`
	Active    bool   `json:"active"`
	IssuedBy  string `json:"issued_by"`
	IssuedAt  string `json:"issued_at"`
}

func (r *StrikeResponse) FromModel(m model.Strike, now time.Time) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.Reason = m.Reason
	r.ExpiresAt = m.ExpiresAt.Format(constant.DateFormat)
	r.Active = m.ActiveAt(now)
	r.IssuedBy = m.CreatedBy
	r.IssuedAt = m.CreatedAt.Format(constant.DateFormat)
}

type GetStrikesResponse struct {
	Strikes   []StrikeResponse `json:"strikes"`
	Active    int              `json:"active"`
	Banned    bool             `json:"banned"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetStrikesResponse) FromModels(models []model.Strike, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Strikes = make([]StrikeResponse, len(models))
	for i, mod := range models {
		r.Strikes[i].FromModel(mod, now)
	}
}
