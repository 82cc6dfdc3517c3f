package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// 搜索关键词派生规则：
//  1. 所有文本字段拼接后小写分词（非单词字符切分）
//  2. 商品名每个单词额外生成长度 2..12 的前缀
//  3. 去掉下划线和连字符，丢弃长度小于 2 的词
//  4. 与调用方自带关键词合并去重

const (
	minTokenLen  = 2
	maxPrefixLen = 12
)

var (
	splitPattern = regexp.MustCompile(`\W+`)
	stripPattern = regexp.MustCompile(`[_-]+`)
)

// Generate 从文本字段派生搜索关键词集合
// name 参与普通分词，并额外产出前缀 n-gram
func Generate(name string, texts []string, extra []string) []string {
	combined := strings.ToLower(strings.Join(append([]string{name}, texts...), " "))
	rawTokens := splitPattern.Split(combined, -1)

	// 商品名前缀
	var nameTokens []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if len(w) >= minTokenLen {
			nameTokens = append(nameTokens, w)
		}
		limit := len(w)
		if limit > maxPrefixLen {
			limit = maxPrefixLen
		}
		for i := minTokenLen; i <= limit; i++ {
			nameTokens = append(nameTokens, w[:i])
		}
	}

	tokens := make([]string, 0, len(rawTokens)+len(nameTokens)+len(extra))
	tokens = append(tokens, rawTokens...)
	tokens = append(tokens, nameTokens...)
	for _, k := range extra {
		tokens = append(tokens, strings.ToLower(k))
	}

	set := make(map[string]struct{})
	for _, t := range tokens {
		clean := stripPattern.ReplaceAllString(strings.TrimSpace(t), "")
		if len(clean) >= minTokenLen {
			set[clean] = struct{}{}
		}
	}

	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
