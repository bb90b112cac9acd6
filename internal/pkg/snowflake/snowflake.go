// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snowflake

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const maxNode int64 = 1023

var ErrExceedNode = errors.New("node超出限制")

// Generator 生成全局唯一的int64 ID, 子订单ID用它
// 同一个订单内的N个子订单各自拿一个独立ID, 作为发货和售后的追踪单位
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > maxNode {
		return nil, fmt.Errorf("%w: nodeID = %d", ErrExceedNode, nodeID)
	}
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: n}, nil
}

func (g *Generator) Generate() int64 {
	return g.node.Generate().Int64()
}
