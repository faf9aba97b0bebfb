// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// dateKeyLayouts はParseDateKeyが受理する日付形式。
// 歴史的データにはゼロ埋めなしの "2025-8-3" 形式と
// ゼロ埋めありの "2025-08-03" 形式が混在している。
var dateKeyLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
}

// ParseDateKey は日付文字列を正規形のDateKeyに変換する。
// ゼロ埋めの有無にかかわらず同一の日付は同一のキーになる。
// 解釈できない入力にはINVALID_DATE_KEYエラーを返す。
func ParseDateKey(input string) (DateKey, error) {
	for _, layout := range dateKeyLayouts {
		t, err := time.Parse(layout, input)
		if err == nil {
			return DateKeyFromTime(t), nil
		}
	}
	return "", NewInvalidDateKeyError(input)
}

// DateKeyFromTime はtime.Timeから正規形のDateKeyを生成する。
func DateKeyFromTime(t time.Time) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// Time はDateKeyをその日の0時（UTC）のtime.Timeに変換する。
// 正規形でないキーはゼロ値とエラーを返す。
func (k DateKey) Time() (time.Time, error) {
	t, err := time.Parse("2006-01-02", string(k))
	if err != nil {
		return time.Time{}, NewInvalidDateKeyError(string(k))
	}
	return t, nil
}
