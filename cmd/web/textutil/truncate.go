// Package textutil 는 화면 표시용 문자열 가공 함수를 모아둔다.
package textutil

import "unicode"

// Ellipsis 는 잘린 문자열 끝에 붙는 표식이다.
const Ellipsis = "..."

// Truncate 는 text 가 maxLength 문자(rune)를 넘으면 단어 경계에서 자르고 Ellipsis 를 붙인다.
//
// 앞쪽 maxLength+1 문자 안에서 마지막 공백을 찾아 그 직전까지 남긴다.
// 공백이 없으면 정확히 maxLength 에서 자른다.
func Truncate(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	window := runes[:maxLength+1]
	cut := -1
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			cut = i
			break
		}
	}
	if cut == -1 {
		cut = maxLength
	}
	return string(window[:cut]) + Ellipsis
}
