package handler

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.CheckinService.Create: missing location" → "missing location".
// The 400 response body is the bare message; clients never see layer prefixes.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, prefix := range []string{
		"service.CheckinService.Create: ",
		"service.CheckinService.List: ",
	} {
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
