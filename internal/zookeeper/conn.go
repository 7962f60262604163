package zookeeper

import (
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

// Conn 是对 zk.Conn 的一层薄封装，统一管理会话创建和关闭。
type Conn struct {
	*zk.Conn
}

// Connect 连接到逗号分隔的 ZooKeeper 集群地址。
func Connect(servers string, sessionTimeout time.Duration) (*Conn, error) {
	conn, _, err := zk.Connect(strings.Split(servers, ","), sessionTimeout)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn}, nil
}

// EnsurePath 确保一个持久节点存在，已存在时不报错。
func (c *Conn) EnsurePath(path string) error {
	_, err := c.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll))
	if err != nil && err != zk.ErrNodeExists {
		return err
	}
	return nil
}

// Close 关闭会话，所有临时节点会随会话消失。
func (c *Conn) Close() {
	c.Conn.Close()
}
