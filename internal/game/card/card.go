package card

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，数值即比较大小用的牌力
type Rank int

// CardColor 定义牌的颜色
type CardColor int

const (
	Black CardColor = iota
	Red
)

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Club                // 梅花
	Diamond             // 方块
	Joker               // 王牌
)

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Club:    "♣",
	Diamond: "♦",
	Joker:   "",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

const (
	Rank3 Rank = iota + 3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
	Rank2
	RankBlackJoker // BlackJoker
	RankRedJoker   // RedJoker
)

// DeckSize 一副牌的张数
const DeckSize = 54

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank3:          "3",
	Rank4:          "4",
	Rank5:          "5",
	Rank6:          "6",
	Rank7:          "7",
	Rank8:          "8",
	Rank9:          "9",
	Rank10:         "10",
	RankJ:          "J",
	RankQ:          "Q",
	RankK:          "K",
	RankA:          "A",
	Rank2:          "2",
	RankBlackJoker: "B",
	RankRedJoker:   "R",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// IsJoker 是否为大小王
func (r Rank) IsJoker() bool {
	return r == RankBlackJoker || r == RankRedJoker
}

// charToRank 用于快速查找字符对应的 Rank
var charToRank = map[rune]Rank{
	'3': Rank3,
	'4': Rank4,
	'5': Rank5,
	'6': Rank6,
	'7': Rank7,
	'8': Rank8,
	'9': Rank9,
	'T': Rank10,
	'J': RankJ,
	'Q': RankQ,
	'K': RankK,
	'A': RankA,
	'2': Rank2,
	'B': RankBlackJoker,
	'R': RankRedJoker,
}

func RankFromChar(char rune) (Rank, error) {
	if rank, ok := charToRank[char]; ok {
		return rank, nil
	}
	return -1, fmt.Errorf("无法识别的点数: %c", char)
}

// Card 定义一张牌。牌本身没有可变状态，花色只用于区分同点数的四张牌。
type Card struct {
	Suit Suit
	Rank Rank
}

// Color 返回牌的颜色
func (c Card) Color() CardColor {
	switch {
	case c.Rank == RankRedJoker, c.Suit == Heart, c.Suit == Diamond:
		return Red
	default:
		return Black
	}
}

// String 返回牌的文本表示，例如 3♠、10♥、BJ、RJ
func (c Card) String() string {
	switch c.Rank {
	case RankBlackJoker:
		return "BJ"
	case RankRedJoker:
		return "RJ"
	}
	return c.Rank.String() + c.Suit.String()
}

// MarshalText 实现 encoding.TextMarshaler，持久化时使用文本表示
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("无效的牌: suit=%d rank=%d", c.Suit, c.Rank)
	}
	return []byte(c.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Valid 判断是否属于 54 张牌的固定集合
func (c Card) Valid() bool {
	if c.Rank.IsJoker() {
		return c.Suit == Joker
	}
	return c.Rank >= Rank3 && c.Rank <= Rank2 && c.Suit >= Spade && c.Suit <= Diamond
}

// RankValue 返回牌的比较值：3 最小，依次到 A、2、小王、大王。
// 所有比较都以此为准。
func RankValue(c Card) int {
	return int(c.Rank)
}

// symbolToSuit 花色符号及字母到 Suit 的映射
var symbolToSuit = map[string]Suit{
	"♠": Spade, "S": Spade,
	"♥": Heart, "H": Heart,
	"♣": Club, "C": Club,
	"♦": Diamond, "D": Diamond,
}

// ParseCard 解析一张牌，支持 3♠、10♥、TH、AS、BJ、RJ 等写法
func ParseCard(s string) (Card, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	switch text {
	case "BJ":
		return Card{Suit: Joker, Rank: RankBlackJoker}, nil
	case "RJ":
		return Card{Suit: Joker, Rank: RankRedJoker}, nil
	}

	text = strings.Replace(text, "10", "T", 1)
	runes := []rune(text)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("无法识别的牌: %q", s)
	}

	rank, err := RankFromChar(runes[0])
	if err != nil || rank.IsJoker() {
		return Card{}, fmt.Errorf("无法识别的牌: %q", s)
	}
	suit, ok := symbolToSuit[string(runes[1])]
	if !ok {
		return Card{}, fmt.Errorf("无法识别的花色: %q", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards 解析以空白或逗号分隔的多张牌
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards 解析失败时 panic，仅用于测试和常量
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 按固定顺序生成 54 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for s := Spade; s <= Diamond; s++ {
		for r := Rank3; r <= Rank2; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	deck = append(deck,
		Card{Suit: Joker, Rank: RankBlackJoker},
		Card{Suit: Joker, Rank: RankRedJoker},
	)
	return deck
}

// Shuffled 返回洗好的新牌堆，不修改 d。r 为 nil 时使用全局随机源。
func (d Deck) Shuffled(r *rand.Rand) Deck {
	return Shuffled(d, r)
}

// Shuffled 均匀随机打乱 d 的副本
func Shuffled(d Deck, r *rand.Rand) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}
