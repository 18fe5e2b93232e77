package repairs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/enums"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

// TicketStore is the slice of the spreadsheet client the repair service
// needs.
type TicketStore interface {
	ListRecords(ctx context.Context, table string) ([]airtable.Record, error)
	GetRecord(ctx context.Context, table, id string) (airtable.Record, error)
	CreateRecord(ctx context.Context, table string, fields map[string]any) (airtable.Record, error)
	UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (airtable.Record, error)
	DeleteRecord(ctx context.Context, table, id string) error
}

// TicketInput carries the writable fields of a repair ticket. Pointer
// fields distinguish "leave unchanged" from "set to zero value" on update.
type TicketInput struct {
	Status        *string          `json:"status,omitempty"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	SubmittedOn   *string          `json:"submitted_on,omitempty"`
	CustomerName  *string          `json:"customer_name,omitempty"`
	CustomerEmail *string          `json:"customer_email,omitempty"`
	ItemSummary   *string          `json:"item_summary,omitempty"`
}

// Service owns repair ticket reads and writes. Reads tolerate whatever the
// spreadsheet holds; writes enforce the canonical status set.
type Service struct {
	store TicketStore
	table string
	logg  *logger.Logger
}

func NewService(store TicketStore, cfg config.AirtableConfig, logg *logger.Logger) *Service {
	return &Service{
		store: store,
		table: cfg.RepairsTable,
		logg:  logg,
	}
}

// List returns every ticket in canonical form.
func (s *Service) List(ctx context.Context) ([]records.RepairTicket, error) {
	rows, err := s.store.ListRecords(ctx, s.table)
	if err != nil {
		return nil, err
	}
	tickets := make([]records.RepairTicket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, records.NormalizeRepair(row))
	}
	return tickets, nil
}

// Get returns one ticket by record ID.
func (s *Service) Get(ctx context.Context, id string) (records.RepairTicket, error) {
	row, err := s.store.GetRecord(ctx, s.table, id)
	if err != nil {
		return records.RepairTicket{}, err
	}
	return records.NormalizeRepair(row), nil
}

// Create validates and writes a new ticket. Status defaults to New when
// omitted; submission date defaults to today.
func (s *Service) Create(ctx context.Context, input TicketInput) (records.RepairTicket, error) {
	fields, err := writeFields(input)
	if err != nil {
		return records.RepairTicket{}, err
	}
	if _, ok := fields[records.FieldStatus]; !ok {
		fields[records.FieldStatus] = string(enums.RepairStatusNew)
	}
	if _, ok := fields[records.FieldSubmittedOn]; !ok {
		fields[records.FieldSubmittedOn] = time.Now().UTC().Format("2006-01-02")
	}

	row, err := s.store.CreateRecord(ctx, s.table, fields)
	if err != nil {
		return records.RepairTicket{}, err
	}
	logCtx := s.logg.WithEntity(ctx, "repair_ticket", row.ID)
	s.logg.Info(logCtx, "repair ticket created")
	return records.NormalizeRepair(row), nil
}

// Update validates and applies a partial update.
func (s *Service) Update(ctx context.Context, id string, input TicketInput) (records.RepairTicket, error) {
	fields, err := writeFields(input)
	if err != nil {
		return records.RepairTicket{}, err
	}
	if len(fields) == 0 {
		return records.RepairTicket{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	row, err := s.store.UpdateRecord(ctx, s.table, id, fields)
	if err != nil {
		return records.RepairTicket{}, err
	}
	logCtx := s.logg.WithEntity(ctx, "repair_ticket", row.ID)
	s.logg.Info(logCtx, "repair ticket updated")
	return records.NormalizeRepair(row), nil
}

// Delete removes a ticket.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, s.table, id); err != nil {
		return err
	}
	logCtx := s.logg.WithEntity(ctx, "repair_ticket", id)
	s.logg.Info(logCtx, "repair ticket deleted")
	return nil
}

// writeFields maps validated input onto the spreadsheet's display-name
// columns.
func writeFields(input TicketInput) (map[string]any, error) {
	fields := make(map[string]any)

	if input.Status != nil {
		status, err := enums.ParseRepairStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid repair status").
				WithDetails(map[string]any{"allowed": enums.RepairStatuses()})
		}
		fields[records.FieldStatus] = string(status)
	}
	if input.AmountPaid != nil {
		if input.AmountPaid.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid cannot be negative")
		}
		amount, _ := input.AmountPaid.Float64()
		fields[records.FieldAmountPaid] = amount
	}
	if input.SubmittedOn != nil {
		if _, err := time.Parse("2006-01-02", *input.SubmittedOn); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "submitted_on must be YYYY-MM-DD")
		}
		fields[records.FieldSubmittedOn] = *input.SubmittedOn
	}
	if input.CustomerName != nil {
		fields[records.FieldCustomerName] = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		fields[records.FieldCustomerEmail] = *input.CustomerEmail
	}
	if input.ItemSummary != nil {
		fields[records.FieldItemSummary] = *input.ItemSummary
	}
	return fields, nil
}
