package models

// NotificationAction names the change being announced.
type NotificationAction string

const (
	NotificationActionUpdated NotificationAction = "UPDATED"
	NotificationActionDeleted NotificationAction = "DELETED"
)

// NotificationChannel is a simulated delivery channel.
type NotificationChannel string

const (
	ChannelSMS   NotificationChannel = "SMS"
	ChannelEmail NotificationChannel = "EMAIL"
)

// Delivery records one simulated send.
type Delivery struct {
	Recipient string              `json:"recipient"`
	Channel   NotificationChannel `json:"channel"`
	Address   string              `json:"address"`
}

// NotificationResult summarises a dispatch.
type NotificationResult struct {
	CourseCode string             `json:"course_code"`
	Action     NotificationAction `json:"action"`
	Recipients []string           `json:"recipients"`
	Deliveries []Delivery         `json:"deliveries"`
	Fallback   bool               `json:"fallback"`
	Summary    string             `json:"summary"`
}

// DeliveriesOn returns the deliveries made over channel.
func (r NotificationResult) DeliveriesOn(channel NotificationChannel) []Delivery {
	result := make([]Delivery, 0, len(r.Deliveries))
	for _, d := range r.Deliveries {
		if d.Channel == channel {
			result = append(result, d)
		}
	}
	return result
}
