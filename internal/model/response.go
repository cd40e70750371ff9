package model

// ApiResponse is the uniform envelope returned by every endpoint,
// success or failure. Failures carry the same shape with an empty data
// object and an HTTP status chosen by the handler.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Messages reused across handlers.
const (
	MsgRequestSuccessful  = "Request successful"
	MsgException          = "Something went wrong"
	MsgInvalidCredentials = "Invalid Username or Password"
	MsgNoPermission       = "You do not have permission to perform this operation"
	MsgUserNotFound       = "User not found"
	MsgNoClientFound      = "No Client found"
	MsgVehicleNotFound    = "Vehicle not found"
	MsgVehicleTypeMissing = "Vehicle Type not found"
)

// Success wraps content in a successful envelope.
func Success(content any) ApiResponse {
	return ApiResponse{Success: true, Message: MsgRequestSuccessful, Data: content}
}

// Fail builds a failed envelope with the given message and an empty
// data object. Clients expect data to always be an object.
func Fail(message string) ApiResponse {
	return ApiResponse{Success: false, Message: message, Data: map[string]any{}}
}
