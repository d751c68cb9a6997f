package models

import "time"

// DefaultCommissionPercent: процент комиссии, если он не указан в запросе.
const DefaultCommissionPercent = 15.0

// Installation: запись об установке в текущем (живом) журнале пользователя.
//
// InstalledOn всегда хранится в виде ISO-8601 даты (2006-01-02), поэтому
// лексикографическое сравнение строк совпадает с хронологическим.
type Installation struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	PlanCategory      string    `json:"plan_category"`
	PlanTier          string    `json:"plan_tier"`
	Description       string    `json:"description"`
	OriginalPrice     float64   `json:"original_price"`
	RoundedPrice      float64   `json:"rounded_price"`
	ClientLogin       string    `json:"client_login"`
	InstalledOn       string    `json:"installed_on"`
	CommissionPercent float64   `json:"commission_percent"`
	Commission        float64   `json:"commission"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// InstallationInput: поля установки, которые задаёт оператор при создании
// и редактировании. Цены, описание и комиссия вычисляются по каталогу.
type InstallationInput struct {
	PlanCategory      string   `json:"plan_category" validate:"required"`
	PlanTier          string   `json:"plan_tier" validate:"required"`
	ClientLogin       string   `json:"client_login" validate:"required,max=100"`
	InstalledOn       string   `json:"installed_on" validate:"required"`
	CommissionPercent *float64 `json:"commission_percent,omitempty" validate:"omitempty,gt=0"`
	Notes             string   `json:"notes,omitempty" validate:"max=300"`
}

// LiveReport: текущий журнал пользователя вместе с суммой комиссий.
type LiveReport struct {
	Installations   []Installation `json:"installations"`
	TotalCommission float64        `json:"total_commission"`
	Count           int            `json:"count"`
}
