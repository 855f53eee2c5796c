package models

import (
	"fmt"
	"strings"
)

// Category 行程分段的收入类别
// 零值为 uber，与新建分段的默认类别一致
type Category uint8

const (
	CategoryUber Category = iota
	CategoryPersonal
	CategoryOther
)

var categoryNames = [...]string{
	CategoryUber:     "uber",
	CategoryPersonal: "personal",
	CategoryOther:    "other",
}

// Categories 全部类别，按显示顺序
func Categories() []Category {
	return []Category{CategoryUber, CategoryPersonal, CategoryOther}
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid 是否为已知类别
func (c Category) Valid() bool {
	return int(c) < len(categoryNames)
}

// MarshalText 序列化为小写名称
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText 只接受已知类别名称
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory 解析类别名称（忽略大小写）
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// LegacyCategory 旧版 tripType 映射：uber/personal 原样保留，其余一律视为 other
func LegacyCategory(tripType string) Category {
	switch strings.ToLower(strings.TrimSpace(tripType)) {
	case "uber":
		return CategoryUber
	case "personal":
		return CategoryPersonal
	default:
		return CategoryOther
	}
}
