package service

import (
	"fmt"

	"github.com/google/uuid"
)

func originalKey(docID uuid.UUID) string {
	return fmt.Sprintf("documents/%s/original.pdf", docID)
}

func editableKey(docID uuid.UUID) string {
	return fmt.Sprintf("documents/%s/editable.pdf", docID)
}

func pageImageKey(docID uuid.UUID, page int, ext string) string {
	return fmt.Sprintf("documents/%s/pages/%04d.%s", docID, page, ext)
}

func exportKey(docID uuid.UUID, name string) string {
	return fmt.Sprintf("documents/%s/exports/%s", docID, name)
}
