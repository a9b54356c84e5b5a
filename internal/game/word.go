package game

import "strings"

// Маска слова хранится как битовый набор: бит i установлен, когда
// буква на позиции i открыта. Биты только ставятся и никогда не
// снимаются, операции "закрыть букву" не существует.

// MaskWord - отображение слова для чата: открытые буквы как есть,
// закрытые как "_", через пробел.
func MaskWord(word string, wordState int64) string {
	runes := []rune(word)
	parts := make([]string, len(runes))
	for i, r := range runes {
		if wordState&(1<<i) != 0 {
			parts[i] = string(r)
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, " ")
}

// IsLetterRevealed - открыта ли уже хоть одна такая буква.
func IsLetterRevealed(word string, wordState int64, letter rune) bool {
	for i, r := range []rune(word) {
		if r == letter && wordState&(1<<i) != 0 {
			return true
		}
	}
	return false
}

// RevealLetter ставит биты на всех позициях буквы. Если буквы в слове
// нет, маска возвращается без изменений - вызывающий узнаёт промах
// сравнением с исходной.
func RevealLetter(word string, wordState int64, letter rune) int64 {
	newState := wordState
	for i, r := range []rune(word) {
		if r == letter {
			newState |= 1 << i
		}
	}
	return newState
}

// CountLetter - сколько раз буква встречается в слове.
func CountLetter(word string, letter rune) int {
	count := 0
	for _, r := range word {
		if r == letter {
			count++
		}
	}
	return count
}

// FullMask - маска полностью открытого слова.
func FullMask(word string) int64 {
	return (1 << len([]rune(word))) - 1
}

// IsComplete - открыто ли слово целиком.
func IsComplete(word string, wordState int64) bool {
	return wordState == FullMask(word)
}
