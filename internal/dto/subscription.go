package dto

// SubscribeRequest asks for notifications about courses matching Pattern.
// Omitted channels default to email on and SMS off.
type SubscribeRequest struct {
	Pattern     string `json:"pattern" binding:"required,max=64"`
	NotifyEmail *bool  `json:"notify_email"`
	NotifySMS   *bool  `json:"notify_sms"`
}
