package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Report: исторический отчёт за закрытый период. После создания не изменяется.
type Report struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"user_id"`
	PeriodStart      string         `json:"period_start"`
	PeriodEnd        string         `json:"period_end"`
	TotalCommission  float64        `json:"total_commission"`
	NumInstallations int            `json:"num_installations"`
	CreatedAt        time.Time      `json:"created_at"`
	Snapshot         []SnapshotItem `json:"installations,omitempty"`
}

// SnapshotItem: денормализованная копия архивированной установки.
// Имена JSON-ключей являются форматом хранения и не меняются.
type SnapshotItem struct {
	Description       string  `json:"descricao_combo"`
	ClientLogin       string  `json:"login_cliente"`
	InstalledOn       string  `json:"data_instalacao"`
	Commission        float64 `json:"comissao"`
	CommissionPercent float64 `json:"porcentagem_comissao"`
	Notes             *string `json:"observacoes"`
}

// PeriodRequest используется для приёма периода архивации из JSON-запроса.
type PeriodRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// ReportBuilder строит отчёт по выбранным установкам. Вызывается внутри транзакции
// архивации и не должен иметь побочных эффектов.
type ReportBuilder func(selected []Installation) Report

// SnapshotOf копирует поля установки, попадающие в снимок отчёта.
func SnapshotOf(inst Installation) SnapshotItem {
	return SnapshotItem{
		Description:       inst.Description,
		ClientLogin:       inst.ClientLogin,
		InstalledOn:       inst.InstalledOn,
		Commission:        inst.Commission,
		CommissionPercent: inst.CommissionPercent,
		Notes:             inst.Notes,
	}
}

// EncodeSnapshot сериализует снимок в JSON для хранения в текстовой колонке.
// Пустой снимок кодируется как "[]", а не "null".
func EncodeSnapshot(items []SnapshotItem) (string, error) {
	const op = "models.EncodeSnapshot"
	if items == nil {
		items = []SnapshotItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(data), nil
}

// DecodeSnapshot восстанавливает снимок из сохранённого JSON.
func DecodeSnapshot(raw string) ([]SnapshotItem, error) {
	const op = "models.DecodeSnapshot"
	var items []SnapshotItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
