package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validCSV = `transaction_id,sender_id,receiver_id,amount,timestamp
TX_1,ACC_A,ACC_B,100.50,2024-01-15 10:00:00
TX_2,ACC_B,ACC_C,99.00,2024-01-15T11:30:00
`

func TestParseCSV_ValidRows(t *testing.T) {
	res, err := ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)

	require.Equal(t, 2, res.Accepted)
	require.Equal(t, 0, res.Skipped)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)

	first := res.Transactions[0]
	require.Equal(t, "TX_1", first.ID)
	require.Equal(t, "ACC_A", first.SenderID)
	require.Equal(t, "ACC_B", first.ReceiverID)
	require.Equal(t, 100.50, first.Amount)
	require.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), first.Timestamp)
}

func TestParseCSV_HeaderCaseAndSpacing(t *testing.T) {
	data := "Transaction_ID, SENDER_id ,Receiver_Id,AMOUNT,Timestamp\nTX_1,A,B,50,2024-01-15 10:00:00\n"

	res, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, res.Accepted)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	data := "transaction_id,sender_id,receiver_id,amount\nTX_1,A,B,50\n"

	_, err := ParseCSV(strings.NewReader(data))

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "timestamp", missing.Column)
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseCSV_BadRowsSkippedWithDiagnostics(t *testing.T) {
	data := `transaction_id,sender_id,receiver_id,amount,timestamp
TX_1,A,B,100,2024-01-15 10:00:00
TX_2,A,A,100,2024-01-15 10:00:00
TX_3,A,B,-5,2024-01-15 10:00:00
TX_4,A,B,abc,2024-01-15 10:00:00
TX_5,A,,100,2024-01-15 10:00:00
TX_6,A,B,100,not-a-date
`

	res, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, 1, res.Accepted)
	require.Equal(t, 5, res.Skipped)
	require.Len(t, res.Errors, 5)
	require.Contains(t, res.Errors[0], "line 3")
	require.Contains(t, res.Errors[0], "self-transfer")
}

func TestParseCSV_EmptyTransactionIDGetsGenerated(t *testing.T) {
	data := "transaction_id,sender_id,receiver_id,amount,timestamp\n,A,B,100,2024-01-15 10:00:00\n"

	res, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, res.Accepted)
	require.NotEmpty(t, res.Transactions[0].ID)
}

func TestParseTimestamp_AcceptedLayouts(t *testing.T) {
	cases := []string{
		"2024-01-15 10:00:00",
		"2024-01-15T10:00:00",
		"2024/01/15 10:00:00",
		"15/01/2024 10:00:00",
		"2024-01-15T10:00:00Z",
		"2024-01-15",
	}
	for _, value := range cases {
		ts, err := ParseTimestamp(value)
		require.NoError(t, err, value)
		require.Equal(t, 2024, ts.Year(), value)
		require.Equal(t, time.January, ts.Month(), value)
		require.Equal(t, 15, ts.Day(), value)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	require.Error(t, err)

	_, err = ParseTimestamp("")
	require.Error(t, err)
}

func TestDecodeUpload_UTF8Passthrough(t *testing.T) {
	data := []byte("transaction_id,sender_id\nTX_1,ACC_É")
	require.Equal(t, string(data), DecodeUpload(data))
}

func TestDecodeUpload_Latin1Widening(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 but not valid standalone UTF-8.
	data := []byte{'A', 'C', 'C', '_', 0xE9}
	decoded := DecodeUpload(data)
	require.Equal(t, "ACC_é", decoded)
}
