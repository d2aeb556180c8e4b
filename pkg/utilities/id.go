package utilities

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// DefaultClientNode is the snowflake node used when none is configured.
const DefaultClientNode int64 = 1

// NewRequestID returns a KSUID that ties one API call to its refresh and
// replay in the logs.
func NewRequestID() string {
	return ksuid.New().String()
}

// NewClientID returns the snowflake id sent as X-Client-ID. Clients sharing
// an API should be given distinct nodes so their ids never collide.
func NewClientID(node int64) (string, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return "", fmt.Errorf("client node %d: %w", node, err)
	}
	return n.Generate().String(), nil
}
