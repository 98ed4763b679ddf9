package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalDocumentKey(t *testing.T) {
	re := regexp.MustCompile(`^certificate/\d{13}-[0-9a-f]{9}\.pdf$`)
	key := InternalDocumentKey("Certificate", "safety-cert.pdf")
	assert.Regexp(t, re, key)

	// Два вызова не должны совпадать
	assert.NotEqual(t, key, InternalDocumentKey("Certificate", "safety-cert.pdf"))
}

func TestProjectDocumentKey(t *testing.T) {
	re := regexp.MustCompile(`^17/documents/\d{13}-[0-9a-f]{9}\.docx$`)
	assert.Regexp(t, re, ProjectDocumentKey(17, "scope of work.docx"))
}

func TestContractKey(t *testing.T) {
	re := regexp.MustCompile(`^5/contracts/contract_IRS-0042-WX-2026_\d{13}\.html$`)
	assert.Regexp(t, re, ContractKey(5, "IRS-0042-WX-2026"))

	// Без кода отслеживания подставляется ID проекта с ведущими нулями
	reFallback := regexp.MustCompile(`^5/contracts/contract_00000005_\d{13}\.html$`)
	assert.Regexp(t, reFallback, ContractKey(5, ""))
}

func TestAvatarKey(t *testing.T) {
	assert.Equal(t, "avatars/12.png", AvatarKey(12, "me.png"))
	assert.Equal(t, "avatars/3", AvatarKey(3, "noext"))
}

func TestContentTypeByExt(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeByExt("report.PDF"))
	assert.Equal(t, "text/html", ContentTypeByExt("contract.html"))
	assert.Equal(t, "image/png", ContentTypeByExt("avatar.png"))
	assert.Equal(t, "application/octet-stream", ContentTypeByExt("archive.tar.zst"))
}
