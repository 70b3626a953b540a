package models

// Result is the uniform envelope every core operation returns instead of
// letting errors cross into handlers.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
