package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/streamline-api/internal/export"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
)

// ExportFormat selects the file type of an export.
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
)

const (
	contentTypePDF   = "application/pdf"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportResult is a rendered file ready to be sent as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a user's todos and tickets as downloadable files.
type ExportService struct {
	todoRepo   repository.TodoRepository
	ticketRepo repository.TicketRepository
}

// NewExportService creates a new ExportService
func NewExportService(todoRepo repository.TodoRepository, ticketRepo repository.TicketRepository) *ExportService {
	return &ExportService{
		todoRepo:   todoRepo,
		ticketRepo: ticketRepo,
	}
}

// ExportTodos renders the todos of userID created inside window.
func (s *ExportService) ExportTodos(userID string, format ExportFormat, window utils.DateRange) (*ExportResult, error) {
	todos, err := s.todoRepo.ListForOwner(userID, utils.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	table := export.Table{
		Title:     "Streamline - Task List",
		SheetName: "Todos",
		Columns: []export.Column{
			{Header: "Task", PDFWidth: 75, SheetWidth: 40},
			{Header: "Category", PDFWidth: 30, SheetWidth: 15},
			{Header: "Priority", PDFWidth: 25, SheetWidth: 12},
			{Header: "Status", PDFWidth: 25, SheetWidth: 12},
			{Header: "Created", SheetHeader: "Created Date", PDFWidth: 35, SheetWidth: 15},
		},
	}
	for _, todo := range todos {
		if !window.Contains(todo.CreatedAt) {
			continue
		}
		status := "Pending"
		if todo.Completed {
			status = "Completed"
		}
		table.Rows = append(table.Rows, []string{
			todo.Text,
			todo.Category,
			string(todo.Priority),
			status,
			todo.CreatedAt.UTC().Format("2006-01-02"),
		})
	}

	return render(table, format, "todos")
}

// ExportTickets renders the tickets of userID created inside window.
func (s *ExportService) ExportTickets(userID string, format ExportFormat, window utils.DateRange) (*ExportResult, error) {
	tickets, err := s.ticketRepo.ListForOwner(userID, utils.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	table := export.Table{
		Title:     "Streamline - Support Tickets",
		SheetName: "Tickets",
		Columns: []export.Column{
			{Header: "Ticket ID", PDFWidth: 30, SheetWidth: 16},
			{Header: "Client", PDFWidth: 30, SheetWidth: 20},
			{Header: "Subject", PDFWidth: 60, SheetWidth: 40},
			{Header: "Status", PDFWidth: 22, SheetWidth: 12},
			{Header: "Priority", PDFWidth: 20, SheetWidth: 12},
			{Header: "Created", SheetHeader: "Created Date", PDFWidth: 28, SheetWidth: 15},
		},
	}
	for _, ticket := range tickets {
		if !window.Contains(ticket.CreatedAt) {
			continue
		}
		table.Rows = append(table.Rows, []string{
			ticket.TicketID,
			ticket.ClientName,
			ticket.Subject,
			ticketStatusLabel(ticket.Status),
			string(ticket.Priority),
			ticket.CreatedAt.UTC().Format("2006-01-02"),
		})
	}

	return render(table, format, "tickets")
}

func render(table export.Table, format ExportFormat, basename string) (*ExportResult, error) {
	switch format {
	case FormatPDF:
		data, err := export.WritePDF(table)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: basename + ".pdf", ContentType: contentTypePDF, Data: data}, nil
	case FormatExcel:
		data, err := export.WriteExcel(table)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: basename + ".xlsx", ContentType: contentTypeExcel, Data: data}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func ticketStatusLabel(status models.TicketStatus) string {
	switch status {
	case models.TicketStatusInProgress:
		return "In Progress"
	case models.TicketStatusResolved:
		return "Resolved"
	case models.TicketStatusClosed:
		return "Closed"
	default:
		return "Open"
	}
}
