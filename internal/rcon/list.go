package rcon

import (
	"context"
	"strconv"
	"strings"
)

// ListResult holds the parsed response of the "list" command.
type ListResult struct {
	Players []string
	Max     int
}

// List runs the "list" command and parses the response.
// A nil error means the server is reachable, which doubles as the online
// check.
func List(ctx context.Context, c Client) (ListResult, error) {
	out, err := c.Command(ctx, "list")
	if err != nil {
		return ListResult{}, err
	}
	return ParseList(out), nil
}

// ParseList extracts player names and the max slot count from a "list"
// response such as:
//
//	There are 3 of a max of 20 players online: Steve, Alex, Herobrine
//
// Unparseable responses yield an empty list and max 0 rather than an error;
// the response shape varies slightly across server versions and mods.
func ParseList(response string) ListResult {
	var result ListResult

	if idx := strings.Index(response, "max of"); idx != -1 {
		rest := response[idx+len("max of"):]
		if end := strings.Index(rest, "players"); end != -1 {
			if n, err := strconv.Atoi(strings.TrimSpace(rest[:end])); err == nil {
				result.Max = n
			}
		}
	}

	if idx := strings.Index(response, "online:"); idx != -1 {
		names := strings.TrimSpace(response[idx+len("online:"):])
		if names != "" {
			for _, name := range strings.Split(names, ",") {
				if name = strings.TrimSpace(name); name != "" {
					result.Players = append(result.Players, name)
				}
			}
		}
	}

	return result
}
