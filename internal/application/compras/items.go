package compras

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/compras"
)

// Textos del gestor de ítems.
const (
	MsgItemInvalid   = "Descripción, cantidad y precio unitario son requeridos y deben ser mayores a cero."
	MsgProductAbsent = "El producto seleccionado no existe o está inactivo."
	DeleteItemPrompt = "¿Está seguro de que desea eliminar este ítem?"
)

// Candidate ítem en preparación. El precio se guarda como texto editable.
type Candidate struct {
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   string
	AppliesIva  bool
}

// BlankCandidate plantilla vacía: cantidad 1 y con IVA.
func BlankCandidate() Candidate {
	return Candidate{Quantity: 1, AppliesIva: true}
}

// LineItemManager prepara un ítem candidato y lo confirma contra el DraftStore.
// No guarda copia de la lista de ítems: lee y escribe siempre a través del store.
type LineItemManager struct {
	mu        sync.Mutex
	store     *DraftStore
	catalog   Catalog
	notifier  Notifier
	candidate Candidate
	editIndex int
}

// NewLineItemManager construye el gestor con el candidato en blanco.
func NewLineItemManager(store *DraftStore, catalog Catalog, notifier Notifier) *LineItemManager {
	return &LineItemManager{
		store:     store,
		catalog:   catalog,
		notifier:  notifier,
		candidate: BlankCandidate(),
		editIndex: -1,
	}
}

// Candidate copia del candidato actual.
func (m *LineItemManager) Candidate() Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.candidate
}

// EditIndex posición en edición, si hay una.
func (m *LineItemManager) EditIndex() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editIndex, m.editIndex >= 0
}

// UpdateCandidate aplica cambios parciales al candidato sin validar.
func (m *LineItemManager) UpdateCandidate(in dto.CandidateRequest) Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &m.candidate
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Unit != nil {
		c.Unit = *in.Unit
	}
	if in.Quantity != nil {
		c.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		c.UnitPrice = *in.UnitPrice
	}
	if in.AppliesIva != nil {
		c.AppliesIva = *in.AppliesIva
	}
	return *c
}

// SelectCatalogProduct copia descripción, unidad y si aplica IVA de un producto
// activo. Cantidad y precio quedan como estaban y no se confirma nada.
func (m *LineItemManager) SelectCatalogProduct(ctx context.Context, productID int64) (Candidate, error) {
	p, err := m.catalog.ActiveProduct(ctx, productID)
	if err != nil {
		return m.Candidate(), err
	}
	if p == nil {
		return m.Candidate(), domain.NewFieldError("productId", MsgProductAbsent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidate.Description = p.Name
	m.candidate.Unit = p.Unit
	m.candidate.AppliesIva = p.AppliesIva
	return m.candidate, nil
}

// CommitItem valida el candidato y lo agrega (o reemplaza el ítem en edición).
// El total siempre se recalcula como cantidad × precio. En error se emite un
// único aviso y el candidato se conserva.
func (m *LineItemManager) CommitItem() (compras.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.candidate
	price, okPrice := parsePrice(c.UnitPrice)
	switch {
	case strings.TrimSpace(c.Description) == "":
		return m.reject("description")
	case !(c.Quantity > 0):
		return m.reject("quantity")
	case !okPrice || !(price > 0):
		return m.reject("unitPrice")
	}

	item := compras.LineItem{
		Description: c.Description,
		Unit:        c.Unit,
		Quantity:    c.Quantity,
		UnitPrice:   price,
		AppliesIva:  c.AppliesIva,
		Total:       compras.LineTotal(c.Quantity, price),
	}
	if m.editIndex >= 0 {
		if err := m.store.ReplaceItem(m.editIndex, item); err != nil {
			return compras.LineItem{}, err
		}
	} else {
		m.store.AppendItem(item)
	}
	m.candidate = BlankCandidate()
	m.editIndex = -1
	return item, nil
}

func (m *LineItemManager) reject(field string) (compras.LineItem, error) {
	if m.notifier != nil {
		m.notifier.Notify(MsgItemInvalid)
	}
	return compras.LineItem{}, domain.NewFieldError(field, MsgItemInvalid)
}

// BeginEdit carga el ítem i en el candidato (precio como texto) y lo marca como destino.
func (m *LineItemManager) BeginEdit(i int) (Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.store.Item(i)
	if !ok {
		return m.candidate, fmt.Errorf("ítem %d: %w", i, domain.ErrNotFound)
	}
	m.candidate = Candidate{
		Description: it.Description,
		Unit:        it.Unit,
		Quantity:    it.Quantity,
		UnitPrice:   strconv.FormatFloat(it.UnitPrice, 'f', -1, 64),
		AppliesIva:  it.AppliesIva,
	}
	m.editIndex = i
	return m.candidate, nil
}

// CancelEdit descarta el candidato y la edición en curso.
func (m *LineItemManager) CancelEdit() {
	m.mu.Lock()
	m.candidate = BlankCandidate()
	m.editIndex = -1
	m.mu.Unlock()
}

// DeleteItem elimina el ítem i solo si el usuario confirma. Si i es el ítem en
// edición el puntero se limpia (el candidato se conserva y un commit posterior
// agrega); si i es anterior, el puntero se corre para seguir apuntando al mismo ítem.
func (m *LineItemManager) DeleteItem(i int, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(DeleteItemPrompt) {
		return domain.ErrConfirmationRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.RemoveItem(i); err != nil {
		return err
	}
	switch {
	case m.editIndex == i:
		m.editIndex = -1
	case m.editIndex > i:
		m.editIndex--
	}
	return nil
}

// parsePrice interpreta el precio escrito por el usuario. Acepta coma decimal
// cuando no hay punto ("10,50").
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
