package activitylog

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"cloverlink.io/application/utils"
	"cloverlink.io/infrastructure/env"
	"cloverlink.io/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	transactionMarker = "Transaction: "
	errorMarker       = "Error: "
	lineTimeLayout    = "2006-01-02 15:04:05"
)

const StatusFailed = "FAILED"

var Instance *Log

func InitialiseActivityLog() {
	Instance = NewLog(env.GetOrDefault("TRANSACTION_LOG_FILE", "transactions.log"), nil)
}

type TransactionRecord struct {
	ID               string  `json:"id"`
	Timestamp        string  `json:"timestamp"`
	Status           string  `json:"status"`
	PaymentID        string  `json:"payment_id"`
	OrderID          string  `json:"order_id"`
	AmountCents      int64   `json:"amount"`
	AmountMajorUnits float64 `json:"amount_major_units"`
	Currency         string  `json:"currency"`
	Description      string  `json:"description"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

type errorRecord struct {
	Timestamp    string         `json:"timestamp"`
	ErrorType    string         `json:"error_type"`
	ErrorMessage string         `json:"error_message"`
	Context      map[string]any `json:"context"`
}

// Log is an append-only event sink for transactions and errors. One entry per
// line: a level tag, a timestamp, a marker and a JSON payload. The JSON suffix
// after the marker is the parse contract for readers.
type Log struct {
	path        string
	operational *zap.Logger
}

// NewLog builds a sink appending to the file at path. The operational logger
// carries write failures and read warnings; pass nil to use the process logger.
func NewLog(path string, operational *zap.Logger) *Log {
	return &Log{path: path, operational: operational}
}

func (l *Log) opLogger() *zap.Logger {
	if l.operational != nil {
		return l.operational
	}
	return logger.Logger
}

// RecordTransaction appends one entry per checkout attempt, success or
// failure. Write failures never propagate to the triggering transaction; they
// go to the operational logger instead.
func (l *Log) RecordTransaction(record *TransactionRecord) {
	if record.ID == "" {
		record.ID = utils.GenerateULIDString()
	}
	if record.Timestamp == "" {
		record.Timestamp = time.Now().Format(time.RFC3339)
	}
	record.AmountMajorUnits = float64(record.AmountCents) / 100.0
	l.append("INFO", transactionMarker, record)
}

// RecordError appends a structured error entry independent of any transaction.
func (l *Log) RecordError(kind string, message string, context map[string]any) {
	if context == nil {
		context = map[string]any{}
	}
	l.append("ERROR", errorMarker, &errorRecord{
		Timestamp:    time.Now().Format(time.RFC3339),
		ErrorType:    kind,
		ErrorMessage: message,
		Context:      context,
	})
}

func (l *Log) append(level string, marker string, entry any) {
	payload, err := json.Marshal(entry)
	if err != nil {
		l.opLogger().Error("failed to encode activity log entry", zap.Error(err))
		return
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.opLogger().Error("failed to open activity log", zap.String("path", l.path), zap.Error(err))
		return
	}
	defer file.Close()
	line := level + " " + time.Now().Format(lineTimeLayout) + " " + marker + string(payload) + "\n"
	if _, err := file.WriteString(line); err != nil {
		l.opLogger().Error("failed to append to activity log", zap.String("path", l.path), zap.Error(err))
	}
}

// RecentTransactions tail-reads the last n transaction entries. Lines that
// carry the transaction marker but fail to parse are skipped and counted;
// the skip count is returned so lenient reading stays visible. A missing log
// file yields an empty slice.
func (l *Log) RecentTransactions(n int) ([]TransactionRecord, int) {
	file, err := os.Open(l.path)
	if err != nil {
		return []TransactionRecord{}, 0
	}
	defer file.Close()

	records := []TransactionRecord{}
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, transactionMarker)
		if idx < 0 {
			continue
		}
		var record TransactionRecord
		if err := json.Unmarshal([]byte(line[idx+len(transactionMarker):]), &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		l.opLogger().Warn("activity log read ended early", zap.String("path", l.path), zap.Error(err))
	}
	if skipped > 0 {
		l.opLogger().Warn("skipped unparseable activity log entries", zap.Int("skipped", skipped))
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records, skipped
}
