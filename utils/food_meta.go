package utils

import (
	"regexp"
	"strconv"
	"strings"

	"gin-inventory/models"

	"golang.org/x/text/width"
)

const (
	DetailPieceCount = "単品（個装）入数"
	DetailCapacity   = "単品容量"
)

// Detail values are width-folded before matching: "５００ｍｌ" reads as "500ml"
// and halfwidth katakana as fullwidth.
var capacityPattern = regexp.MustCompile(`^([0-9]+)\s*([a-zA-Zぁ-んァ-ンー\p{Han}]+)`)

var unitAliases = map[string]models.FoodUnit{
	"g":   models.FoodUnitGram,
	"グラム": models.FoodUnitGram,
	"kg":  models.FoodUnitKilogram,
	"l":   models.FoodUnitLiter,
	"ml":  models.FoodUnitMilliliter,
	"cc":  models.FoodUnitMilliliter,
	"個":   models.FoodUnitPiece,
	"本":   models.FoodUnitBottle,
	"袋":   models.FoodUnitBag,
	"缶":   models.FoodUnitCan,
	"箱":   models.FoodUnitBox,
	"パック": models.FoodUnitPack,
	"枚":   models.FoodUnitPiece,
	"食":   models.FoodUnitPiece,
}

// ExtractQuantityAndUnit reads the product detail table of a barcode lookup.
// The piece count wins over the capacity; unknown input yields (1, 個).
func ExtractQuantityAndUnit(details map[string]string) (int, models.FoodUnit) {
	if count := width.Fold.String(strings.TrimSpace(details[DetailPieceCount])); count != "" && allDigits(count) {
		if n, err := strconv.Atoi(count); err == nil && n > 0 {
			return n, models.FoodUnitPiece
		}
	}

	if m := capacityPattern.FindStringSubmatch(width.Fold.String(strings.TrimSpace(details[DetailCapacity]))); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			if unit, ok := lookupUnit(strings.ToLower(m[2])); ok {
				return n, unit
			}
		}
	}
	return 1, models.FoodUnitPiece
}

// lookupUnit matches the longest known unit at the start of s, so "500mlペット"
// still reads as ml.
func lookupUnit(s string) (models.FoodUnit, bool) {
	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		if unit, ok := unitAliases[string(runes[:i])]; ok {
			return unit, true
		}
	}
	return "", false
}

// 上から順に判定する
var categoryKeywords = []struct {
	category models.FoodCategory
	words    []string
}{
	{models.FoodCategoryFrozen, []string{"冷凍"}},
	{models.FoodCategoryCanned, []string{"缶詰", "レトルト", "カレー", "ツナ"}},
	{models.FoodCategoryHamSausage, []string{"ハム", "ソーセージ", "ウインナー", "ベーコン"}},
	{models.FoodCategoryEggDairy, []string{"卵", "たまご", "牛乳", "ミルク", "ヨーグルト", "チーズ", "バター"}},
	{models.FoodCategoryMeat, []string{"豚", "牛肉", "鶏", "ひき肉", "肉"}},
	{models.FoodCategorySeafood, []string{"鮭", "さけ", "まぐろ", "さば", "えび", "いか", "たこ", "魚", "貝"}},
	{models.FoodCategoryFruits, []string{"りんご", "バナナ", "みかん", "いちご", "ぶどう", "果物", "フルーツ"}},
	{models.FoodCategoryVegetables, []string{"野菜", "キャベツ", "にんじん", "玉ねぎ", "たまねぎ", "トマト", "きのこ", "しいたけ", "レタス"}},
	{models.FoodCategoryStaples, []string{"米", "ごはん", "パン", "麺", "うどん", "そば", "パスタ", "ラーメン"}},
	{models.FoodCategorySnacks, []string{"チョコ", "クッキー", "ポテトチップス", "スナック", "ガム", "キャンディ", "せんべい", "ビスケット"}},
	{models.FoodCategorySeasoning, []string{"醤油", "しょうゆ", "味噌", "みそ", "塩", "砂糖", "ソース", "ケチャップ", "マヨネーズ", "ドレッシング", "酢", "みりん", "だし"}},
	{models.FoodCategoryDrinks, []string{"茶", "水", "ジュース", "コーヒー", "飲料", "ドリンク", "サイダー", "ビール"}},
	{models.FoodCategoryDeli, []string{"惣菜", "弁当", "サラダ", "コロッケ"}},
}

func GuessFoodCategory(name string) models.FoodCategory {
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(name, w) {
				return entry.category
			}
		}
	}
	return models.FoodCategoryOther
}
