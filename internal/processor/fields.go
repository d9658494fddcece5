package processor

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// 事件参数提取。ABI解析产出的值类型取决于参数类型：地址为
// common.Address，数值为*big.Int，字符串为string。字段缺失或
// 类型不符视为畸形事件，返回错误由上层跳过该条。

func fieldAddress(data map[string]interface{}, name string) (string, error) {
	v, ok := data[name]
	if !ok {
		return "", fmt.Errorf("event missing address field %q", name)
	}
	switch addr := v.(type) {
	case common.Address:
		return addr.Hex(), nil
	case string:
		return addr, nil
	default:
		return "", fmt.Errorf("event field %q is not an address (got %T)", name, v)
	}
}

func fieldAmount(data map[string]interface{}, name string) (string, error) {
	v, ok := data[name]
	if !ok {
		return "", fmt.Errorf("event missing amount field %q", name)
	}
	n, ok := v.(*big.Int)
	if !ok {
		return "", fmt.Errorf("event field %q is not a uint (got %T)", name, v)
	}
	return n.String(), nil
}

func fieldInt64(data map[string]interface{}, name string) (int64, error) {
	v, ok := data[name]
	if !ok {
		return 0, fmt.Errorf("event missing numeric field %q", name)
	}
	n, ok := v.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("event field %q is not a uint (got %T)", name, v)
	}
	return n.Int64(), nil
}

func fieldString(data map[string]interface{}, name string) (string, error) {
	v, ok := data[name]
	if !ok {
		return "", fmt.Errorf("event missing string field %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("event field %q is not a string (got %T)", name, v)
	}
	return s, nil
}
