package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/vanshika/ringtrace/backend/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// WriteCSV serialises the dataset into a CSV file at the provided path.
func WriteCSV(txs []domain.Transaction, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.SenderID,
			tx.ReceiverID,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Timestamp.Format(timestampLayout),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %s: %w", tx.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
