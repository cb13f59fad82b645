package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// Format selects the export file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// IsValid checks whether the format is supported
func (f Format) IsValid() bool {
	return f == FormatCSV || f == FormatExcel
}

// contractColumns is the fixed export column order
var contractColumns = []string{
	"unit_number", "tenant", "start_date", "end_date",
	"monthly_rent", "cancelled", "notification_sent",
}

const dateLayout = "2006-01-02"

// ExportFile is a generated export ready to be served
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ContractExportService renders contract listings as CSV or Excel
// files with a fixed column order
type ContractExportService struct {
	contractRepo leasing.ContractRepository
	unitRepo     property.UnitRepository
	tenantRepo   tenancy.TenantRepository
	now          func() time.Time
}

// NewContractExportService creates a new ContractExportService
func NewContractExportService(
	contractRepo leasing.ContractRepository,
	unitRepo property.UnitRepository,
	tenantRepo tenancy.TenantRepository,
) *ContractExportService {
	return &ContractExportService{
		contractRepo: contractRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		now:          time.Now,
	}
}

// Export renders the contracts matching the filter in the requested
// format
func (s *ContractExportService) Export(ctx context.Context, filter shared.Filter, format Format) (*ExportFile, error) {
	if !format.IsValid() {
		return nil, shared.NewValidationError("Export format must be csv or xlsx")
	}

	rows, err := s.buildRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	stamp := s.now().Format("20060102")
	switch format {
	case FormatExcel:
		data, err := renderExcel(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("contracts_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		data, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("contracts_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}
}

// buildRows joins contracts with their unit numbers and tenant names
func (s *ContractExportService) buildRows(ctx context.Context, filter shared.Filter) ([][]string, error) {
	contracts, err := s.contractRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	unitNumbers := make(map[uuid.UUID]string)
	tenantNames := make(map[uuid.UUID]string)

	rows := make([][]string, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]

		unitNumber, ok := unitNumbers[c.UnitID]
		if !ok {
			unit, err := s.unitRepo.FindByID(ctx, c.UnitID)
			if err != nil {
				return nil, err
			}
			unitNumber = unit.Number
			unitNumbers[c.UnitID] = unitNumber
		}

		tenantName, ok := tenantNames[c.TenantID]
		if !ok {
			tenant, err := s.tenantRepo.FindByID(ctx, c.TenantID)
			if err != nil {
				return nil, err
			}
			tenantName = tenant.Username
			tenantNames[c.TenantID] = tenantName
		}

		rows = append(rows, []string{
			unitNumber,
			tenantName,
			c.StartDate.Format(dateLayout),
			c.EndDate.Format(dateLayout),
			c.MonthlyRent.StringFixed(2),
			strconv.FormatBool(c.IsCancelled),
			strconv.FormatBool(c.NotificationSent),
		})
	}
	return rows, nil
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(contractColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Contracts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, header := range contractColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
