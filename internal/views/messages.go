package views

import "fmt"

// Fixed status messages
const (
	MsgEmpty          = "Your todo list is empty"
	MsgAdded          = "New todo added"
	MsgClearedAll     = "All todos cleared"
	MsgClearedDone    = "All completed todos cleared"
	msgIDPrefixFormat = "Todo with id: %s %s"
)

// MsgCompleted is printed after check
func MsgCompleted(id string) string {
	return fmt.Sprintf(msgIDPrefixFormat, id, "marked completed")
}

// MsgActive is printed after uncheck
func MsgActive(id string) string {
	return fmt.Sprintf(msgIDPrefixFormat, id, "marked active")
}

// MsgCleared is printed after clear <id>
func MsgCleared(id string) string {
	return fmt.Sprintf(msgIDPrefixFormat, id, "cleared")
}

// MsgNotFound is printed when no todo has the given id
func MsgNotFound(id string) string {
	return fmt.Sprintf(msgIDPrefixFormat, id, "not found")
}
