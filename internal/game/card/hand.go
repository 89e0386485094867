package card

import (
	"fmt"
	"slices"
	"strings"
)

// findRocketInHand 查找手牌中的王炸
func findRocketInHand(hand []Card) ([]Card, bool) {
	var black, red *Card
	for i := range hand {
		if hand[i].Rank == RankBlackJoker {
			black = &hand[i]
		}
		if hand[i].Rank == RankRedJoker {
			red = &hand[i]
		}
	}
	if black != nil && red != nil {
		return []Card{*black, *red}, true
	}
	return nil, false
}

// parseInputRanks 解析输入字符串为 Rank 计数
func parseInputRanks(input string) (map[Rank]int, error) {
	inputRanks := make(map[Rank]int)
	cleanInput := strings.ReplaceAll(input, "10", "T")

	for _, char := range cleanInput {
		if char == ' ' {
			continue
		}
		rank, err := RankFromChar(char)
		if err != nil {
			return nil, err
		}
		inputRanks[rank]++
	}
	return inputRanks, nil
}

// CountRanks 统计各 Rank 的数量
func CountRanks(cards []Card) map[Rank]int {
	counts := make(map[Rank]int)
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

// extractCards 从手牌中提取指定数量的指定 Rank 的牌，优先取排在后面的牌
func extractCards(handCopy []Card, inputRanks map[Rank]int) []Card {
	ranks := make([]Rank, 0, len(inputRanks))
	for r := range inputRanks {
		ranks = append(ranks, r)
	}
	slices.Sort(ranks)

	var result []Card
	for _, rank := range ranks {
		count := inputRanks[rank]
		found := 0
		for i := len(handCopy) - 1; i >= 0 && found < count; i-- {
			if handCopy[i].Rank == rank {
				result = append(result, handCopy[i])
				handCopy = slices.Delete(handCopy, i, i+1)
				found++
			}
		}
	}
	return result
}

// FindCardsInHand 从手牌中根据点数输入（如 "334"、"10JQKA"、"JOKER"）找出对应的牌
func FindCardsInHand(hand []Card, input string) ([]Card, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return nil, fmt.Errorf("请输入要出的牌")
	}

	// 处理王炸特殊情况
	if input == "JOKER" {
		if cards, ok := findRocketInHand(hand); ok {
			return cards, nil
		}
		return nil, fmt.Errorf("你没有王炸")
	}

	// 解析输入
	inputRanks, err := parseInputRanks(input)
	if err != nil {
		return nil, err
	}

	// 检查手牌是否足够
	handCounts := CountRanks(hand)
	for r, count := range inputRanks {
		if handCounts[r] < count {
			return nil, fmt.Errorf("你的 %s 不够", r.String())
		}
	}

	// 提取牌
	handCopy := slices.Clone(hand)
	return extractCards(handCopy, inputRanks), nil
}

// RemoveCards 从手牌中移除指定的牌，每张牌只移除一次。
// 第二个返回值表示 toRemove 是否全部在手牌中。
func RemoveCards(hand, toRemove []Card) ([]Card, bool) {
	result := slices.Clone(hand)
	for _, c := range toRemove {
		idx := slices.Index(result, c)
		if idx < 0 {
			return hand, false
		}
		result = slices.Delete(result, idx, idx+1)
	}
	return result, true
}

// ContainsAll 判断 cards 是否全部在 hand 中（按多重集合计算）
func ContainsAll(hand, cards []Card) bool {
	_, ok := RemoveCards(hand, cards)
	return ok
}

// HasDuplicates 判断是否有重复的牌
func HasDuplicates(cards []Card) bool {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// SortDesc 按点数从大到小排序，点数相同时按花色排序，保证结果可复现
func SortDesc(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		if a.Rank != b.Rank {
			return int(b.Rank) - int(a.Rank)
		}
		return int(a.Suit) - int(b.Suit)
	})
}

// Format 将多张牌格式化为以空格分隔的文本
func Format(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
