package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/clinicctx"
)

type unbilledVisitRow struct {
	ID          snowflake.ID
	ClientID    snowflake.ID
	PatientID   snowflake.ID
	ClientName  string
	PatientName string
	CompletedAt time.Time
}

type visitItemRow struct {
	Name      string
	Quantity  float64
	UnitPrice int64
}

type visitLabRow struct {
	Name  string
	Price int64
}

type prescriptionRow struct {
	Medication string
	Quantity   float64
}

type priceEntry struct {
	Name            string
	ClientPrice     int64
	DefaultQuantity float64
}

// ListUnbilled proposes invoices for completed visits that have billable
// work and no invoice yet. Candidates come from the visit's treatment lines,
// its priced lab tests, and prescriptions that match the client's price
// list. Visits with nothing billable are skipped.
func (s *Service) ListUnbilled(ctx context.Context, req domain.ListUnbilledRequest) ([]domain.UnbilledVisit, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	var clientID snowflake.ID
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			return nil, domain.ErrInvalidClient
		}
		clientID = parsed
	}

	visits, err := s.fetchUnbilledVisits(ctx, clinicID, clientID)
	if err != nil {
		return nil, err
	}

	priceLists := make(map[snowflake.ID]map[string]priceEntry)
	result := make([]domain.UnbilledVisit, 0, len(visits))
	for _, visit := range visits {
		prices, ok := priceLists[visit.ClientID]
		if !ok {
			prices, err = s.fetchPriceList(ctx, clinicID, visit.ClientID)
			if err != nil {
				return nil, err
			}
			priceLists[visit.ClientID] = prices
		}

		items, err := s.fetchVisitItems(ctx, clinicID, visit.ID)
		if err != nil {
			return nil, err
		}
		labs, err := s.fetchVisitLabs(ctx, clinicID, visit.ID)
		if err != nil {
			return nil, err
		}
		prescriptions, err := s.fetchVisitPrescriptions(ctx, clinicID, visit.ID)
		if err != nil {
			return nil, err
		}

		candidates := buildCandidates(items, labs, prescriptions, prices)
		if len(candidates) == 0 {
			continue
		}

		result = append(result, domain.UnbilledVisit{
			VisitID:     int64(visit.ID),
			ClientID:    int64(visit.ClientID),
			PatientID:   int64(visit.PatientID),
			ClientName:  visit.ClientName,
			PatientName: visit.PatientName,
			CompletedAt: visit.CompletedAt,
			Candidates:  candidates,
			Estimated:   estimateTotal(candidates),
		})
	}

	return result, nil
}

// buildCandidates assembles proposal lines for one visit. Treatment lines
// keep their recorded price; a zero price is resolved from the client's
// price list by case-insensitive name. Lab tests contribute only when
// priced. Prescriptions contribute only when the medication appears on the
// price list.
func buildCandidates(items []visitItemRow, labs []visitLabRow, prescriptions []prescriptionRow, prices map[string]priceEntry) []domain.UnbilledCandidate {
	candidates := make([]domain.UnbilledCandidate, 0, len(items)+len(labs)+len(prescriptions))

	for _, item := range items {
		price := item.UnitPrice
		source := "visit"
		if price == 0 {
			if entry, ok := prices[strings.ToLower(item.Name)]; ok {
				price = entry.ClientPrice
				source = "pricelist"
			}
		}
		candidates = append(candidates, domain.UnbilledCandidate{
			Description: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			Source:      source,
		})
	}

	for _, lab := range labs {
		if lab.Price <= 0 {
			continue
		}
		candidates = append(candidates, domain.UnbilledCandidate{
			Description: lab.Name,
			Quantity:    1,
			UnitPrice:   lab.Price,
			Source:      "labtest",
		})
	}

	for _, prescription := range prescriptions {
		entry, ok := prices[strings.ToLower(prescription.Medication)]
		if !ok {
			continue
		}
		quantity := prescription.Quantity
		if quantity <= 0 {
			quantity = entry.DefaultQuantity
		}
		candidates = append(candidates, domain.UnbilledCandidate{
			Description: entry.Name,
			Quantity:    quantity,
			UnitPrice:   entry.ClientPrice,
			Source:      "prescription",
		})
	}

	return candidates
}

func estimateTotal(candidates []domain.UnbilledCandidate) int64 {
	var total int64
	for _, candidate := range candidates {
		total += int64(math.Round(candidate.Quantity * float64(candidate.UnitPrice)))
	}
	return total
}

func (s *Service) fetchUnbilledVisits(ctx context.Context, clinicID, clientID snowflake.ID) ([]unbilledVisitRow, error) {
	var rows []unbilledVisitRow
	query := `SELECT v.id, v.client_id, v.patient_id,
	                 c.name AS client_name, p.name AS patient_name, v.completed_at
	          FROM visits v
	          JOIN clients c ON c.id = v.client_id
	          JOIN patients p ON p.id = v.patient_id
	          WHERE v.clinic_id = ? AND v.status = 'completed'
	            AND NOT EXISTS (SELECT 1 FROM invoices i WHERE i.visit_id = v.id)`
	args := []any{clinicID}
	if clientID != 0 {
		query += ` AND v.client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY v.completed_at DESC, v.id DESC`

	err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) fetchPriceList(ctx context.Context, clinicID, clientID snowflake.ID) (map[string]priceEntry, error) {
	var rows []priceEntry
	err := s.db.WithContext(ctx).Raw(
		`SELECT name, client_price, default_quantity
		 FROM price_list_items
		 WHERE clinic_id = ? AND client_id = ? AND active = ?`,
		clinicID,
		clientID,
		true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	prices := make(map[string]priceEntry, len(rows))
	for _, row := range rows {
		prices[strings.ToLower(strings.TrimSpace(row.Name))] = row
	}
	return prices, nil
}

func (s *Service) fetchVisitItems(ctx context.Context, clinicID, visitID snowflake.ID) ([]visitItemRow, error) {
	var rows []visitItemRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT name, quantity, unit_price
		 FROM visit_items
		 WHERE clinic_id = ? AND visit_id = ?
		 ORDER BY id ASC`,
		clinicID,
		visitID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) fetchVisitLabs(ctx context.Context, clinicID, visitID snowflake.ID) ([]visitLabRow, error) {
	var rows []visitLabRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT name, price
		 FROM lab_tests
		 WHERE clinic_id = ? AND visit_id = ?
		 ORDER BY id ASC`,
		clinicID,
		visitID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) fetchVisitPrescriptions(ctx context.Context, clinicID, visitID snowflake.ID) ([]prescriptionRow, error) {
	var rows []prescriptionRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT medication, quantity
		 FROM prescriptions
		 WHERE clinic_id = ? AND visit_id = ?
		 ORDER BY id ASC`,
		clinicID,
		visitID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
