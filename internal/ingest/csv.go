package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vanshika/ringtrace/backend/internal/domain"
)

// Required CSV columns, matched case-insensitively after trimming.
var requiredColumns = []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
}

// Fallback layouts for rows none of the primary forms match.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// Result aggregates the outcome of parsing one upload. Row-level
// failures are collected, never fatal.
type Result struct {
	Transactions []domain.Transaction
	Accepted     int
	Skipped      int
	Errors       []string
}

// ParseCSV reads transactions from CSV data. The header must contain
// every required column; rows with missing endpoints, non-positive
// amounts, self-transfers, or unparseable timestamps are skipped with a
// line-tagged diagnostic.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, fmt.Errorf("empty file")
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return Result{}, &MissingColumnError{Column: required}
		}
	}

	var res Result
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		tx, err := parseRow(record, columns)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		res.Transactions = append(res.Transactions, tx)
		res.Accepted++
	}

	return res, nil
}

func parseRow(record []string, columns map[string]int) (domain.Transaction, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	sender := field("sender_id")
	receiver := field("receiver_id")
	if sender == "" || receiver == "" {
		return domain.Transaction{}, fmt.Errorf("missing sender or receiver")
	}
	if sender == receiver {
		return domain.Transaction{}, fmt.Errorf("self-transfer rejected")
	}

	amountText := field("amount")
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount %q", amountText)
	}
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("non-positive amount %v", amount)
	}

	ts, err := ParseTimestamp(field("timestamp"))
	if err != nil {
		return domain.Transaction{}, err
	}

	id := field("transaction_id")
	if id == "" {
		id = uuid.NewString()
	}

	return domain.Transaction{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Amount:     amount,
		Timestamp:  ts,
	}, nil
}

// ParseTimestamp coerces one timestamp field, trying the accepted
// layouts first and a best-effort fallback after.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// DecodeUpload interprets raw upload bytes as UTF-8, widening to Latin-1
// when the bytes are not valid UTF-8.
func DecodeUpload(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
