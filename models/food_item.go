package models

import (
	"time"

	"gorm.io/gorm"
)

type FoodCategory string

const (
	FoodCategoryVegetables FoodCategory = "野菜・きのこ類"
	FoodCategoryFruits     FoodCategory = "果物"
	FoodCategoryMeat       FoodCategory = "精肉"
	FoodCategorySeafood    FoodCategory = "魚介類"
	FoodCategoryEggDairy   FoodCategory = "卵・乳製品"
	FoodCategoryFrozen     FoodCategory = "冷凍食品"
	FoodCategoryCanned     FoodCategory = "レトルト・缶詰"
	FoodCategoryHamSausage FoodCategory = "ハム・ソーセージ類"
	FoodCategoryDeli       FoodCategory = "惣菜"
	FoodCategorySnacks     FoodCategory = "お菓子"
	FoodCategoryStaples    FoodCategory = "米、パン、麺"
	FoodCategorySeasoning  FoodCategory = "調味料"
	FoodCategoryDrinks     FoodCategory = "飲料"
	FoodCategoryOther      FoodCategory = "その他"
)

// FoodCategories lists every category in display order.
var FoodCategories = []FoodCategory{
	FoodCategoryVegetables,
	FoodCategoryFruits,
	FoodCategoryMeat,
	FoodCategorySeafood,
	FoodCategoryEggDairy,
	FoodCategoryFrozen,
	FoodCategoryCanned,
	FoodCategoryHamSausage,
	FoodCategoryDeli,
	FoodCategorySnacks,
	FoodCategoryStaples,
	FoodCategorySeasoning,
	FoodCategoryDrinks,
	FoodCategoryOther,
}

func (c FoodCategory) Valid() bool {
	for _, v := range FoodCategories {
		if c == v {
			return true
		}
	}
	return false
}

type FoodUnit string

const (
	FoodUnitGram       FoodUnit = "g"
	FoodUnitKilogram   FoodUnit = "kg"
	FoodUnitLiter      FoodUnit = "L"
	FoodUnitMilliliter FoodUnit = "ml"
	FoodUnitPiece      FoodUnit = "個"
	FoodUnitBottle     FoodUnit = "本"
	FoodUnitBag        FoodUnit = "袋"
	FoodUnitCan        FoodUnit = "缶"
	FoodUnitBox        FoodUnit = "箱"
	FoodUnitPack       FoodUnit = "パック"
)

var FoodUnits = []FoodUnit{
	FoodUnitGram,
	FoodUnitKilogram,
	FoodUnitLiter,
	FoodUnitMilliliter,
	FoodUnitPiece,
	FoodUnitBottle,
	FoodUnitBag,
	FoodUnitCan,
	FoodUnitBox,
	FoodUnitPack,
}

func (u FoodUnit) Valid() bool {
	for _, v := range FoodUnits {
		if u == v {
			return true
		}
	}
	return false
}

type FoodItem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null;index" json:"name"`
	Category       FoodCategory   `gorm:"not null;size:50" json:"category"`
	Quantity       int            `gorm:"not null;default:1" json:"quantity"`
	Unit           FoodUnit       `gorm:"not null;default:'個';size:20" json:"unit"`
	ExpirationDate Date           `gorm:"not null;index" json:"expiration_date"`
	Barcode        *string        `gorm:"size:13" json:"barcode"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
