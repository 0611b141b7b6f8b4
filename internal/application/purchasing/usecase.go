// Package purchasing casos de uso de órdenes de compra: borrador, edición de ítems,
// cambios de estado con sus efectos en stock y documento PDF.
package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/portal-api/internal/application/dto"
	appinventory "github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/inventory"
	"github.com/jhoicas/portal-api/internal/domain/purchasing"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// TransitionObserver registra transiciones aplicadas (métricas).
type TransitionObserver interface {
	ObservePurchaseOrderTransition(from, to string)
}

// Reasons de los StockChange generados por órdenes de compra.
const (
	reasonOrdered   = "purchase_order_ordered"
	reasonCancelled = "purchase_order_cancelled"
	reasonReceived  = "purchase_order_received"
)

// PurchaseOrderUseCase casos de uso de órdenes de compra.
type PurchaseOrderUseCase struct {
	uow          repository.UnitOfWork
	orders       repository.PurchaseOrderRepository
	suppliers    repository.SupplierRepository
	products     repository.ProductRepository
	events       ports.EventPublisher
	pdf          ports.PDFGenerator
	observer     TransitionObserver
	onPublishErr func(routingKey string, err error)
	onLookupErr  func(id string, err error)
	now          func() time.Time
}

// Option configura dependencias opcionales.
type Option func(*PurchaseOrderUseCase)

// WithObserver registra las transiciones aplicadas.
func WithObserver(o TransitionObserver) Option {
	return func(uc *PurchaseOrderUseCase) { uc.observer = o }
}

// WithPublishErrorHandler recibe los errores al publicar eventos (la operación ya está confirmada).
func WithPublishErrorHandler(fn func(routingKey string, err error)) Option {
	return func(uc *PurchaseOrderUseCase) { uc.onPublishErr = fn }
}

// WithLookupErrorHandler recibe los errores al leer proveedor o productos para el PDF y el
// evento; la línea afectada queda con el id crudo.
func WithLookupErrorHandler(fn func(id string, err error)) Option {
	return func(uc *PurchaseOrderUseCase) { uc.onLookupErr = fn }
}

// NewPurchaseOrderUseCase construye el caso de uso. Los repos recibidos son los de lectura (fuera de tx).
func NewPurchaseOrderUseCase(
	uow repository.UnitOfWork,
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	events ports.EventPublisher,
	pdf ports.PDFGenerator,
	opts ...Option,
) *PurchaseOrderUseCase {
	uc := &PurchaseOrderUseCase{
		uow:       uow,
		orders:    orders,
		suppliers: suppliers,
		products:  products,
		events:    events,
		pdf:       pdf,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create crea una orden de compra en estado draft con su total calculado.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	items, err := toItems(in.Items)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:                    uuid.New().String(),
		SupplierID:            in.SupplierID,
		Status:                entity.PurchaseOrderDraft,
		TotalAmount:           purchasing.TotalAmount(items),
		EstimatedDeliveryDate: in.EstimatedDeliveryDate,
		Notes:                 in.Notes,
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
		Items:                 items,
	}
	err = uc.uow.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		supplier, err := repos.Suppliers().GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
		}
		return repos.PurchaseOrders().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(po), nil
}

// Update edita una orden en draft. Si vienen ítems se reemplazan y el total se recalcula.
// Fuera de draft devuelve ErrConflict.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var items []entity.PurchaseOrderItem
	if in.Items != nil {
		var err error
		if items, err = toItems(in.Items); err != nil {
			return nil, err
		}
	}
	return repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*dto.PurchaseOrderResponse, error) {
		po, err := repos.PurchaseOrders().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if po == nil {
			return nil, domain.ErrNotFound
		}
		if po.Status != entity.PurchaseOrderDraft {
			return nil, fmt.Errorf("la orden está %s, solo se edita en draft: %w", po.Status, domain.ErrConflict)
		}
		if in.EstimatedDeliveryDate != nil {
			po.EstimatedDeliveryDate = in.EstimatedDeliveryDate
		}
		if in.Notes != nil {
			po.Notes = *in.Notes
		}
		if in.Items != nil {
			if err := repos.PurchaseOrders().ReplaceItems(ctx, id, items); err != nil {
				return nil, err
			}
			po.Items = items
		}
		po.TotalAmount = purchasing.TotalAmount(po.Items)
		po.UpdatedAt = uc.now()
		if err := repos.PurchaseOrders().Update(ctx, po); err != nil {
			return nil, err
		}
		return ToPurchaseOrderResponse(po), nil
	})
}

// ChangeStatus aplica una transición de estado. La transición se valida contra la tabla antes
// de abrir la unidad de trabajo: si no está permitida devuelve ErrInvalidTransition sin escribir nada.
// Dentro de la unidad de trabajo se aplican los efectos en stock y se persiste el estado.
func (uc *PurchaseOrderUseCase) ChangeStatus(ctx context.Context, id, status string) (*dto.PurchaseOrderResponse, error) {
	to := entity.PurchaseOrderStatus(status)
	if !purchasing.IsValidStatus(to) {
		return nil, fmt.Errorf("estado desconocido %q: %w", status, domain.ErrInvalidInput)
	}
	current, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	from := current.Status
	if !purchasing.CanTransition(from, to) {
		return nil, fmt.Errorf("%s → %s: %w", from, to, domain.ErrInvalidTransition)
	}

	po, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*entity.PurchaseOrder, error) {
		po, err := repos.PurchaseOrders().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if po == nil {
			return nil, domain.ErrNotFound
		}
		// otra petición cambió el estado entre la validación y la transacción
		if po.Status != from {
			return nil, fmt.Errorf("la orden pasó a %s: %w", po.Status, domain.ErrConflict)
		}
		now := uc.now()
		if err := applyStockEffects(ctx, repos, po, to, now); err != nil {
			return nil, err
		}
		po.Status = to
		if to == entity.PurchaseOrderReceived {
			po.EffectiveDeliveryDate = &now
		}
		po.UpdatedAt = now
		if err := repos.PurchaseOrders().Update(ctx, po); err != nil {
			return nil, err
		}
		return po, nil
	})
	if err != nil {
		return nil, err
	}

	if uc.observer != nil {
		uc.observer.ObservePurchaseOrderTransition(string(from), string(to))
	}
	if to == entity.PurchaseOrderOrdered {
		uc.publishOrdered(ctx, po)
	}
	return ToPurchaseOrderResponse(po), nil
}

// applyStockEffects efectos en stock de cada transición, un StockChange por campo tocado.
func applyStockEffects(ctx context.Context, repos repository.TxRepos, po *entity.PurchaseOrder, to entity.PurchaseOrderStatus, now time.Time) error {
	var reason string
	var deltas func(qty int) []inventory.Delta
	switch {
	case po.Status == entity.PurchaseOrderDraft && to == entity.PurchaseOrderOrdered:
		reason = reasonOrdered
		deltas = func(qty int) []inventory.Delta {
			return []inventory.Delta{{Field: entity.StockFieldOrdered, Amount: qty}}
		}
	case po.Status == entity.PurchaseOrderOrdered && to == entity.PurchaseOrderCancelled:
		reason = reasonCancelled
		deltas = func(qty int) []inventory.Delta {
			return []inventory.Delta{{Field: entity.StockFieldOrdered, Amount: -qty}}
		}
	case po.Status == entity.PurchaseOrderOrdered && to == entity.PurchaseOrderReceived:
		reason = reasonReceived
		deltas = func(qty int) []inventory.Delta {
			return []inventory.Delta{
				{Field: entity.StockFieldAvailable, Amount: qty},
				{Field: entity.StockFieldOrdered, Amount: -qty},
			}
		}
	default:
		// draft → cancelled / deleted: solo estado
		return nil
	}
	for _, it := range po.Items {
		err := appinventory.ApplyDeltas(ctx, repos, it.ProductID, deltas(it.Quantity), inventory.Reason(reason, po.ID), now)
		if err != nil {
			return fmt.Errorf("stock de %s: %w", it.ProductID, err)
		}
	}
	return nil
}

func (uc *PurchaseOrderUseCase) publishOrdered(ctx context.Context, po *entity.PurchaseOrder) {
	if uc.events == nil {
		return
	}
	ev := ports.PurchaseOrderOrdered{
		PurchaseOrderID:       po.ID,
		TotalAmount:           po.TotalAmount.StringFixed(2),
		EstimatedDeliveryDate: po.EstimatedDeliveryDate,
	}
	s, err := uc.suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		uc.lookupFailed(po.SupplierID, err)
	} else if s != nil {
		ev.SupplierName, ev.SupplierEmail = s.Name, s.Email
	}
	products := uc.productsOf(ctx, po.Items)
	for _, it := range po.Items {
		line := ports.PurchaseOrderLine{Quantity: it.Quantity, UnitPrice: it.UnitPrice.StringFixed(2), Name: it.ProductID}
		if p := products[it.ProductID]; p != nil {
			line.SKU, line.Name = p.SKU, p.Name
		}
		ev.Lines = append(ev.Lines, line)
	}
	if err := uc.events.Publish(ctx, ports.EventPurchaseOrderOrdered, ev); err != nil && uc.onPublishErr != nil {
		uc.onPublishErr(ports.EventPurchaseOrderOrdered, err)
	}
}

func (uc *PurchaseOrderUseCase) productsOf(ctx context.Context, items []entity.PurchaseOrderItem) map[string]*entity.Product {
	out := make(map[string]*entity.Product, len(items))
	for _, it := range items {
		if _, ok := out[it.ProductID]; ok {
			continue
		}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			uc.lookupFailed(it.ProductID, err)
			continue
		}
		out[it.ProductID] = p
	}
	return out
}

func (uc *PurchaseOrderUseCase) lookupFailed(id string, err error) {
	if uc.onLookupErr != nil {
		uc.onLookupErr(id, err)
	}
}

// GetByID obtiene una orden con sus ítems.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return ToPurchaseOrderResponse(po), nil
}

// List lista órdenes (sin ítems). Sin filtro de estado se omiten las eliminadas.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, in dto.PurchaseOrderListRequest) (*dto.PurchaseOrderListResponse, error) {
	in.DefaultPage()
	list, err := uc.orders.List(ctx, repository.PurchaseOrderFilter{
		Status:     entity.PurchaseOrderStatus(in.Status),
		SupplierID: in.SupplierID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *ToPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// PDF genera el documento imprimible de la orden.
func (uc *PurchaseOrderUseCase) PDF(ctx context.Context, id string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errors.New("generador de PDF no configurado")
	}
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.PurchaseOrderPDF(&ports.PurchaseOrderDocument{
		Order:    po,
		Supplier: supplier,
		Products: uc.productsOf(ctx, po.Items),
	})
}

func toItems(in []dto.PurchaseOrderItemRequest) ([]entity.PurchaseOrderItem, error) {
	items := make([]entity.PurchaseOrderItem, 0, len(in))
	for _, it := range in {
		if it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.PurchaseOrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return items, nil
}

// ToPurchaseOrderResponse convierte la entidad a DTO.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	out := &dto.PurchaseOrderResponse{
		ID:                    po.ID,
		SupplierID:            po.SupplierID,
		Status:                string(po.Status),
		TotalAmount:           po.TotalAmount,
		EstimatedDeliveryDate: po.EstimatedDeliveryDate,
		EffectiveDeliveryDate: po.EffectiveDeliveryDate,
		Notes:                 po.Notes,
		CreatedBy:             po.CreatedBy,
		CreatedAt:             po.CreatedAt,
		UpdatedAt:             po.UpdatedAt,
	}
	for _, it := range po.Items {
		out.Items = append(out.Items, dto.PurchaseOrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return out
}
