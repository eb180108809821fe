package node

import (
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Node describes the running server instance.
type Node struct {
	ID         string
	Hostname   string
	Version    string
	CommitHash string
}

// Set at build time with -ldflags "-X disp32x8-server/internal/infra/node.Version=..."
var Version = "development"
var CommitHash = "unknown"

var (
	nodeID       string
	nodeIDOnce   sync.Once
	hostname     string
	hostnameOnce sync.Once
)

func GetNodeInfo() *Node {
	return &Node{
		ID:         getNodeID(),
		Hostname:   getHostname(),
		Version:    Version,
		CommitHash: CommitHash,
	}
}

// LogValue groups the node fields when the node is logged as an attribute.
func (n *Node) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", n.ID),
		slog.String("hostname", n.Hostname),
		slog.String("version", n.Version),
		slog.String("commit", n.CommitHash),
	)
}

func getNodeID() string {
	nodeIDOnce.Do(func() {
		nodeID = uuid.New().String()
	})
	return nodeID
}

func getHostname() string {
	hostnameOnce.Do(func() {
		name, err := os.Hostname()
		if err != nil || name == "" {
			name = "localhost"
		}
		hostname = name
	})
	return hostname
}
