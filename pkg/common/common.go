package common

import (
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a time-sortable snowflake identifier.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		nodeID := cast.ToInt64(os.Getenv("MILLTRACK_NODE_ID")) % 1024
		var err error
		snowflakeNode, err = snowflake.NewNode(nodeID)
		if err != nil {
			snowflakeNode, _ = snowflake.NewNode(0)
		}
	})
	return snowflakeNode.Generate().Int64()
}
