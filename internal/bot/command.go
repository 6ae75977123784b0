package bot

import (
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdHelp
	cmdConnect
	cmdDisconnect
	cmdUpdate
	cmdGetNodeID
	cmdTotalStatus
	cmdStatus
	cmdGenerateToken
)

// command is the closed set of recognized chat commands. Exactly one
// variant is produced per message; arguments are already decoded.
type command struct {
	kind commandKind

	// httpURL is set for cmdConnect.
	httpURL string
	// nodeIndex is set for cmdStatus; defaults to 1 when the argument is
	// missing or unparseable.
	nodeIndex int
}

// parseCommand turns a message text into a command, or nil when the text
// is not a recognized command for this bot. Parsing never fails the
// handler: malformed input is simply ignored, including commands
// addressed to a different bot via the /cmd@name suffix.
func parseCommand(text, botName string) *command {
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		if !strings.EqualFold(name[at+1:], botName) {
			return nil
		}
		name = name[:at]
	}
	args := fields[1:]

	switch name {
	case "start":
		return &command{kind: cmdStart}
	case "help":
		return &command{kind: cmdHelp}
	case "connect":
		if len(args) == 0 {
			return nil
		}
		return &command{kind: cmdConnect, httpURL: strings.TrimRight(args[0], "/")}
	case "disconnect":
		return &command{kind: cmdDisconnect}
	case "update":
		return &command{kind: cmdUpdate}
	case "get_node_id":
		return &command{kind: cmdGetNodeID}
	case "total_status":
		return &command{kind: cmdTotalStatus}
	case "status":
		index := 1
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				index = n
			}
		}
		return &command{kind: cmdStatus, nodeIndex: index}
	case "generate_notification_token":
		return &command{kind: cmdGenerateToken}
	default:
		return nil
	}
}
