package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"
)

// StatementService renders printable card statements.
type StatementService struct {
	Cards repositories.CardsRepository
	Trips repositories.TripsRepository
}

// CardStatement builds a PDF with the card summary, its recent recharges
// and its recent trips. Returns the document and a suggested filename.
func (s StatementService) CardStatement(cardID int64) ([]byte, string, error) {
	summary, err := s.Cards.BalanceSummary(cardID)
	if err != nil {
		return nil, "", err
	}
	history, err := s.Cards.History(cardID)
	if err != nil {
		return nil, "", err
	}
	trips, err := s.Trips.TripsByCard(cardID)
	if err != nil {
		return nil, "", err
	}
	return buildStatementPDF(summary, history, trips)
}

func buildStatementPDF(summary repositories.CardBalance, history []repositories.RechargeEntry, trips []repositories.CardTrip) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Card Statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "CARD STATEMENT")
	pdf.Ln(12)

	lastRecharge := "-"
	if summary.LastRecharge != nil {
		lastRecharge = summary.LastRecharge.Format("2006-01-02 15:04")
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Card          : #%d", summary.CardID),
		fmt.Sprintf("Status        : %s", summary.Status),
		fmt.Sprintf("Balance       : %s COP", summary.Balance),
		fmt.Sprintf("Last recharge : %s", lastRecharge),
		fmt.Sprintf("Generated     : %s", time.Now().Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Recent recharges")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	if len(history) == 0 {
		pdf.Cell(0, 6, "No recharges recorded.")
		pdf.Ln(6)
	}
	for _, rec := range history {
		pdf.Cell(0, 6, fmt.Sprintf("%s   +%s COP   (%s)",
			rec.Timestamp.Format("2006-01-02 15:04"), rec.Amount, rec.PaymentMethod))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Recent trips")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	if len(trips) == 0 {
		pdf.Cell(0, 6, "No trips recorded.")
		pdf.Ln(6)
	}
	for _, trip := range trips {
		fare := "-"
		if trip.Fare != nil {
			fare = trip.Fare.String() + " COP"
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s   %s -> %s   %s   %s",
			trip.BoardingTime.Format("2006-01-02 15:04"),
			strOr(trip.BoardingStationName, "-"),
			strOr(trip.DisembarkingStationName, "-"),
			fare,
			trip.Status))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This statement lists the ten most recent recharges and trips of the card.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("STATEMENT_%d_%s.pdf", summary.CardID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
