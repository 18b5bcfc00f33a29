package settlementapimodels

import (
	dbmodels "convenios-backend/models/db"
	"time"
)

type RunResult struct {
	RunID    string                     `json:"run_id"`
	Cycle    string                     `json:"cycle"`
	Summary  dbmodels.SettlementSummary `json:"summary"`
	Items    []dbmodels.SettlementItem  `json:"items"`
	Warnings []string                   `json:"warnings,omitempty"` // ошибки сохранения отчета и журнала, списания при этом выполнены
}

type RunData struct {
	Cycle string `json:"cycle"` // YYYY-MM, пусто - текущий период
}

type RunView struct {
	ID         string                     `json:"id"`
	Cycle      string                     `json:"cycle"`
	ActorID    string                     `json:"actor_id"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Summary    dbmodels.SettlementSummary `json:"summary"`
}

func RunConvert(rec dbmodels.SettlementRun) RunView {
	return RunView{
		ID:         rec.ID,
		Cycle:      rec.Cycle,
		ActorID:    rec.ActorID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		Summary:    rec.Summary.Data(),
	}
}

func RunResultConvert(rec dbmodels.SettlementRun) RunResult {
	return RunResult{
		RunID:   rec.ID,
		Cycle:   rec.Cycle,
		Summary: rec.Summary.Data(),
		Items:   rec.Items.Data(),
	}
}

// RunResponse ответ запуска списания; success=false только если запуск не выполнен целиком
type RunResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    RunResult `json:"data"`
}
