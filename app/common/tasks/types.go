package tasks

import (
	"encoding/json"
	"time"

	"VenueHub/app/common/jobqueue"
)

const (
	TaskActivityGetByID     = "activity:get_by_id"
	TaskPaymentCreateIntent = "payment:create_intent"
	TaskPaymentWebhook      = "payment:webhook"
	TaskEmailSend           = "email:send"
)

type ActivityLookupPayload struct {
	ActivityID string `json:"activityId"`
}

// CheckoutPayload is the checkout request plus the authenticated caller.
type CheckoutPayload struct {
	RequestID     string `json:"requestId"`
	Kind          string `json:"kind"`
	ActivityID    string `json:"activityId,omitempty"`
	ScheduleID    string `json:"scheduleId,omitempty"`
	Quantity      int64  `json:"quantity,omitempty"`
	BasketID      string `json:"basketId,omitempty"`
	DiscountCode  string `json:"discountCode,omitempty"`
	AffiliateCode string `json:"affiliateCode,omitempty"`
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
}

// WebhookPayload carries an already verified provider event.
type WebhookPayload struct {
	Event json.RawMessage `json:"event"`
}

type EmailPayload struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// LookupOptions are for read jobs an HTTP request waits on.
func LookupOptions() jobqueue.Options {
	return jobqueue.Options{
		Attempts:         2,
		Backoff:          jobqueue.Backoff{Type: jobqueue.BackoffFixed, Delay: 500 * time.Millisecond},
		RemoveOnComplete: jobqueue.RemoveOnComplete{Age: time.Minute, MaxCount: 500},
		RemoveOnFail:     jobqueue.RemoveOnFail{Age: time.Hour},
		Timeout:          10 * time.Second,
	}
}

func PaymentOptions(jobID string) jobqueue.Options {
	return jobqueue.Options{
		Attempts:         3,
		Backoff:          jobqueue.Backoff{Type: jobqueue.BackoffExponential, Delay: 3 * time.Second},
		RemoveOnComplete: jobqueue.RemoveOnComplete{Age: time.Hour, MaxCount: 1000},
		RemoveOnFail:     jobqueue.RemoveOnFail{Age: 7 * 24 * time.Hour},
		JobID:            jobID,
		Timeout:          20 * time.Second,
	}
}

func EmailOptions(jobID string) jobqueue.Options {
	return jobqueue.Options{
		Attempts:         5,
		Backoff:          jobqueue.Backoff{Type: jobqueue.BackoffExponential, Delay: 10 * time.Second},
		RemoveOnComplete: jobqueue.RemoveOnComplete{Age: 24 * time.Hour, MaxCount: 5000},
		RemoveOnFail:     jobqueue.RemoveOnFail{Age: 7 * 24 * time.Hour},
		JobID:            jobID,
	}
}
