package scene

import "strings"

const indexDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// IndexAfter returns an ordering key that sorts strictly after prev.
// Keys are compared as plain strings.
func IndexAfter(prev string) string {
	if prev == "" {
		return "a0"
	}
	last := prev[len(prev)-1]
	i := strings.IndexByte(indexDigits, last)
	if i < 0 || i == len(indexDigits)-1 {
		return prev + "0"
	}
	return prev[:len(prev)-1] + string(indexDigits[i+1])
}

// NextIndex returns an ordering key that sorts after every element.
func NextIndex(elements []Element) string {
	maxIdx := ""
	for _, e := range elements {
		if e.Index > maxIdx {
			maxIdx = e.Index
		}
	}
	return IndexAfter(maxIdx)
}
