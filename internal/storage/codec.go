package storage

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/landlord-engine/internal/game"
)

// Codec 快照的编解码方式
type Codec interface {
	Name() string
	Marshal(s *game.Snapshot) ([]byte, error)
	Unmarshal(data []byte) (*game.Snapshot, error)
}

// CodecByName 按名称返回编码器，空名称使用 JSON
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "proto":
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("未知的编码: %q", name)
	}
}

// JSONCodec 以 JSON 保存快照，方便在 redis-cli 中查看
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(s *game.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte) (*game.Snapshot, error) {
	var s game.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("反序列化快照失败: %w", err)
	}
	return &s, nil
}

// ProtoCodec 把快照转换为 structpb.Struct 后以 protobuf 二进制保存
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Marshal(s *game.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("转换快照失败: %w", err)
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("编码快照失败: %w", err)
	}
	return data, nil
}

func (ProtoCodec) Unmarshal(data []byte) (*game.Snapshot, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("解码快照失败: %w", err)
	}

	raw, err := protojson.Marshal(&st)
	if err != nil {
		return nil, fmt.Errorf("转换快照失败: %w", err)
	}

	var s game.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("反序列化快照失败: %w", err)
	}
	return &s, nil
}
