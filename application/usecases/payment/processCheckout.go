package payment

import (
	"errors"
	"strings"
	"time"

	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/credentials"
	"cloverlink.io/infrastructure/logger"
	payment_types "cloverlink.io/infrastructure/payments/types"
	cache "github.com/patrickmn/go-cache"
)

// ErrUnauthenticated means no usable token exists; the checkout never reached
// the remote processor and nothing is logged.
var ErrUnauthenticated = errors.New("not authenticated, please login")

const DefaultCurrency = "USD"

// merchantCacheTTL bounds how long a merchant preflight read is trusted
// before the next checkout revalidates against the processor.
const merchantCacheTTL = 5 * time.Minute

var Checkout *CheckoutProcessor

func InitialiseCheckoutProcessor(store *credentials.Store, processor payment_types.PaymentProcessor, events *activitylog.Log) {
	Checkout = NewCheckoutProcessor(store, processor, events)
}

// CheckoutProcessor runs one checkout attempt as a fixed sequence: merchant
// preflight, create order, attach line item, charge payment, poll the final
// status. Strictly sequential, no retries; the first failure aborts and is
// still logged with whatever identifiers the attempt had collected.
type CheckoutProcessor struct {
	Credentials   *credentials.Store
	Processor     payment_types.PaymentProcessor
	Events        *activitylog.Log
	merchantCache *cache.Cache
}

func NewCheckoutProcessor(store *credentials.Store, processor payment_types.PaymentProcessor, events *activitylog.Log) *CheckoutProcessor {
	return &CheckoutProcessor{
		Credentials:   store,
		Processor:     processor,
		Events:        events,
		merchantCache: cache.New(merchantCacheTTL, 10*time.Minute),
	}
}

type CheckoutResult struct {
	Status      string
	PaymentID   string
	OrderID     string
	Amount      float64
	Currency    string
	Description string
}

// MinorUnits converts a major-currency-unit amount to integer minor units.
// Fractional cents are truncated, not rounded; 10.004 charges 1000 cents.
func MinorUnits(amount float64) int64 {
	return int64(amount * 100)
}

func (checkout *CheckoutProcessor) ProcessCheckout(amount float64, currency string, description string) (*CheckoutResult, error) {
	accessToken := checkout.Credentials.AccessToken()
	merchantID := checkout.Credentials.MerchantID()
	if accessToken == nil || merchantID == nil {
		return nil, ErrUnauthenticated
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	record := &activitylog.TransactionRecord{
		AmountCents: MinorUnits(amount),
		Currency:    currency,
		Description: description,
	}

	fail := func(err error) (*CheckoutResult, error) {
		record.Status = activitylog.StatusFailed
		record.ErrorMessage = err.Error()
		checkout.Events.RecordTransaction(record)
		return nil, err
	}

	if _, found := checkout.merchantCache.Get(*merchantID); !found {
		merchant, err := checkout.Processor.GetMerchantInfo(*accessToken, *merchantID)
		if err != nil {
			return fail(err)
		}
		logger.Info("processing payment for merchant", logger.LoggerOptions{
			Key:  "merchant",
			Data: merchant.Name,
		})
		checkout.merchantCache.Set(*merchantID, merchant, cache.DefaultExpiration)
	}

	order, err := checkout.Processor.CreateOrder(*accessToken, *merchantID)
	if err != nil {
		return fail(err)
	}
	record.OrderID = order.ID

	if _, err := checkout.Processor.AddLineItem(*accessToken, *merchantID, order.ID, record.AmountCents, description); err != nil {
		return fail(err)
	}

	payment, err := checkout.Processor.CreatePayment(*accessToken, *merchantID, order.ID, record.AmountCents, currency)
	if err != nil {
		return fail(err)
	}
	record.PaymentID = payment.ID

	details, err := checkout.Processor.GetPaymentDetails(*accessToken, *merchantID, payment.ID)
	if err != nil {
		return fail(err)
	}

	// The processor's own status is surfaced verbatim; a payment can settle
	// "pending".
	status := details.Status
	if status == "" {
		status = "unknown"
	}
	record.Status = strings.ToLower(status)
	checkout.Events.RecordTransaction(record)

	return &CheckoutResult{
		Status:      record.Status,
		PaymentID:   payment.ID,
		OrderID:     order.ID,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	}, nil
}
