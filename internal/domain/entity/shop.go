package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Multitienda-api/internal/domain"
)

// ShopNameMinLen longitud mínima (en runas) del nombre de una tienda.
const ShopNameMinLen = 2

// Shop tienda de un usuario. Products y Sales cuelgan de ella (cascade delete).
type Shop struct {
	ID        string
	OwnerID   string
	Name      string    // nomeDaLoja
	CreatedAt time.Time // dataCriacao
}

// NormalizeShopName normaliza a NFC, recorta espacios y valida la longitud mínima.
// "Água" compuesto y descompuesto quedan iguales antes de contar runas.
func NormalizeShopName(raw string) (string, error) {
	name := strings.TrimSpace(norm.NFC.String(raw))
	if utf8.RuneCountInString(name) < ShopNameMinLen {
		return "", fmt.Errorf("%w: el nombre de la tienda debe tener al menos %d caracteres", domain.ErrValidation, ShopNameMinLen)
	}
	return name, nil
}
