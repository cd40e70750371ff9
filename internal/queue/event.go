// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentRecordedEvent is published when a payment is successfully
// applied to a contract. It carries enough information for downstream
// consumers to log or notify the client without querying the primary
// database.
type PaymentRecordedEvent struct {
	PaymentID       string `json:"payment_id"`
	PaymentRef      string `json:"payment_ref"`
	ContractID      string `json:"contract_id"`
	ContractCode    int    `json:"contract_code"`
	ClientID        string `json:"client_id"`
	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone"`
	VehiclePlate    string `json:"vehicle_plate"`
	Amount          string `json:"amount"`
	Balance         string `json:"balance"`
	ContractStatus  string `json:"contract_status"`
	RecordedBy      string `json:"recorded_by"`
	RecordedAt      string `json:"recorded_at"`
}
