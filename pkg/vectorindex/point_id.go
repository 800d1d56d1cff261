package vectorindex

import "github.com/cespare/xxhash/v2"

// PointIDs derives the two point ids of a document from a 64-bit hash of the
// full document id. The title id is even and the content id is the next odd
// number. Both fit in a signed 64-bit integer.
func PointIDs(documentID string) (titleID, contentID uint64) {
	base := xxhash.Sum64String(documentID) >> 2
	return base * 2, base*2 + 1
}

// DocumentPoints builds the title and content points of one document.
func DocumentPoints(documentID, title, content string, titleVec, contentVec []float32) []Point {
	titleID, contentID := PointIDs(documentID)
	snippet := Snippet(content)

	return []Point{
		{
			ID:     titleID,
			Vector: titleVec,
			Payload: Payload{
				DocumentID: documentID,
				Role:       RoleTitle,
				Title:      title,
				Snippet:    snippet,
			},
		},
		{
			ID:     contentID,
			Vector: contentVec,
			Payload: Payload{
				DocumentID: documentID,
				Role:       RoleContent,
				Title:      title,
				Snippet:    snippet,
			},
		},
	}
}

// Snippet returns the first SnippetLength characters of text.
func Snippet(text string) string {
	r := []rune(text)
	if len(r) <= SnippetLength {
		return text
	}
	return string(r[:SnippetLength])
}
