package handler

var (
	HandleServiceError = handleServiceError
	WantsHTML          = wantsHTML
)
