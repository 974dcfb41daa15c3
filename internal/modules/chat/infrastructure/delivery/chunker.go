package delivery

import (
	"strings"
	"unicode"
)

// shortSentenceWords 不超过该词数的句子可独立成段
const shortSentenceWords = 6

// SplitSentences 按句末标点切句，保留标点。够用即可，不追求语言学完备
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// 吞掉连续标点与随后的闭合引号
		j := i
		for j+1 < len(runes) && (isTerminator(runes[j+1]) || isClosingQuote(runes[j+1])) {
			j++
		}
		// 句边界要求后跟空白或文本结束，避免把小数点当句号
		if j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : j+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = j + 1
		i = j
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', '）':
		return true
	}
	return false
}

// HumanLikeChunks 把一段回复切成拟人化的多条消息：
// 短句单发，长句两两攒一条，收尾的问句单独成条
func HumanLikeChunks(text string) []string {
	sentences := SplitSentences(text)
	var chunks []string
	var buffer []string

	for i, sentence := range sentences {
		switch {
		case len(strings.Fields(sentence)) <= shortSentenceWords && len(buffer) == 0:
			chunks = append(chunks, sentence)
		case strings.ContainsAny(sentence, "?？") && i == len(sentences)-1:
			if len(buffer) > 0 {
				chunks = append(chunks, strings.Join(buffer, " "))
				buffer = nil
			}
			chunks = append(chunks, sentence)
		default:
			buffer = append(buffer, sentence)
			if len(buffer) >= 2 {
				chunks = append(chunks, strings.Join(buffer, " "))
				buffer = nil
			}
		}
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, " "))
	}
	return chunks
}
