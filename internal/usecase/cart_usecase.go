package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

const msgSingleVendor = "You can add items from only one vendor at a time."

var msgQuantityTooLarge = fmt.Sprintf("Quantity must be at most %d", model.MaxCartLineQuantity)

// カート（1顧客1カート、1店舗のみ）
type CartUsecase struct {
	carts     repo.CartRepository
	menuItems repo.MenuItemRepository
}

// DI
func NewCartUsecase(carts repo.CartRepository, menuItems repo.MenuItemRepository) *CartUsecase {
	return &CartUsecase{carts: carts, menuItems: menuItems}
}

type AddCartItemInput struct {
	ItemID   int64
	Quantity int64
}

// 明細1行（itemはメニューの最新。削除済みならnull）
type CartLineOutput struct {
	ItemID   int64           `json:"itemId"`
	Quantity int64           `json:"quantity"`
	Item     *model.MenuItem `json:"item"`
}

type CartOutput struct {
	ID         int64            `json:"id"`
	CustomerID int64            `json:"customerId"`
	VendorID   *int64           `json:"vendorId"`
	Items      []CartLineOutput `json:"items"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type CartSummary struct {
	ItemCount     int64 `json:"itemCount"`
	DistinctItems int   `json:"distinctItems"`
	Subtotal      int64 `json:"subtotal"`
}

type CartWithSummary struct {
	Cart    CartOutput  `json:"cart"`
	Summary CartSummary `json:"summary"`
}

// 既存のカート、無ければ空のカートを作る
func (u *CartUsecase) GetOrCreateCart(ctx context.Context, customerID int64) (model.Cart, error) {
	if customerID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	cart, err := u.carts.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

func (u *CartUsecase) AddItem(ctx context.Context, customerID int64, in AddCartItemInput) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "itemId is required")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}
	if in.Quantity > model.MaxCartLineQuantity {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, msgQuantityTooLarge)
	}

	item, err := u.menuItems.FindByID(ctx, in.ItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !item.Available {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "Item is not available")
	}

	cart, err := u.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return CartOutput{}, err
	}

	//単一店舗チェック
	if !cart.IsEmpty() {
		vendorID, ok, err := u.cartVendorID(ctx, cart)
		if err != nil {
			return CartOutput{}, err
		}
		if ok && vendorID != item.VendorID {
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, msgSingleVendor)
		}
	}

	//同じメニューなら数量を足す
	if i, found := cart.FindItem(item.ID); found {
		//足した結果も上限以内
		if cart.Items[i].Quantity > model.MaxCartLineQuantity-in.Quantity {
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, msgQuantityTooLarge)
		}
		cart.Items[i].Quantity += in.Quantity
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			CartID:     cart.ID,
			MenuItemID: item.ID,
			Quantity:   in.Quantity,
		})
	}
	vendorID := item.VendorID
	cart.VendorID = &vendorID

	return u.saveChecked(ctx, cart)
}

// 明細を外す（無い明細を指定しても何もしない）
func (u *CartUsecase) RemoveItem(ctx context.Context, customerID int64, itemID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "itemId is required")
	}

	cart, err := u.findCart(ctx, customerID)
	if err != nil {
		return CartOutput{}, err
	}

	i, found := cart.FindItem(itemID)
	if found {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		if cart.IsEmpty() {
			cart.VendorID = nil
		}
		cart, err = u.save(ctx, cart)
		if err != nil {
			return CartOutput{}, err
		}
	}

	out, _, err := u.toCartOutput(ctx, cart)
	return out, err
}

// 数量を上書きする（加算ではない）
func (u *CartUsecase) UpdateQuantity(ctx context.Context, customerID int64, itemID int64, quantity int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "itemId is required")
	}
	if quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}
	if quantity > model.MaxCartLineQuantity {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, msgQuantityTooLarge)
	}

	cart, err := u.findCart(ctx, customerID)
	if err != nil {
		return CartOutput{}, err
	}

	i, found := cart.FindItem(itemID)
	if !found {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "Item not found in cart")
	}
	cart.Items[i].Quantity = quantity

	return u.saveChecked(ctx, cart)
}

func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartWithSummary, error) {
	cart, err := u.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return CartWithSummary{}, err
	}

	out, summary, err := u.toCartOutput(ctx, cart)
	if err != nil {
		return CartWithSummary{}, err
	}
	return CartWithSummary{Cart: out, Summary: summary}, nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, customerID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.findCart(ctx, customerID)
	if err != nil {
		return CartOutput{}, err
	}

	cart.Items = []model.CartItem{}
	cart.VendorID = nil

	saved, err := u.save(ctx, cart)
	if err != nil {
		return CartOutput{}, err
	}
	out, _, err := u.toCartOutput(ctx, saved)
	return out, err
}

func (u *CartUsecase) findCart(ctx context.Context, customerID int64) (model.Cart, error) {
	cart, err := u.carts.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "Cart not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

// 合計が溢れないことを確かめてから保存する
func (u *CartUsecase) saveChecked(ctx context.Context, cart model.Cart) (CartOutput, error) {
	items, err := u.loadMenu(ctx, cart)
	if err != nil {
		return CartOutput{}, err
	}
	if _, _, err := buildCartOutput(cart, items); err != nil {
		return CartOutput{}, err
	}

	saved, err := u.save(ctx, cart)
	if err != nil {
		return CartOutput{}, err
	}
	out, _, err := buildCartOutput(saved, items)
	return out, err
}

func (u *CartUsecase) save(ctx context.Context, cart model.Cart) (model.Cart, error) {
	saved, err := u.carts.Save(ctx, cart)
	if errors.Is(err, repo.ErrConflict) {
		return model.Cart{}, NewHTTPError(http.StatusConflict, "cart was modified concurrently, retry")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return saved, nil
}

// カートの店舗ID。vendor_idが無い古いカートは明細のメニューから引く。
func (u *CartUsecase) cartVendorID(ctx context.Context, cart model.Cart) (int64, bool, error) {
	if cart.VendorID != nil {
		return *cart.VendorID, true, nil
	}

	ids := make([]int64, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.MenuItemID)
	}
	items, err := u.menuItems.FindByIDs(ctx, ids)
	if err != nil {
		return 0, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, it := range cart.Items {
		if mi, ok := items[it.MenuItemID]; ok {
			return mi.VendorID, true, nil
		}
	}
	return 0, false, nil
}

// メニューを引き直して明細と集計を作る
func (u *CartUsecase) toCartOutput(ctx context.Context, cart model.Cart) (CartOutput, CartSummary, error) {
	items, err := u.loadMenu(ctx, cart)
	if err != nil {
		return CartOutput{}, CartSummary{}, err
	}
	return buildCartOutput(cart, items)
}

func (u *CartUsecase) loadMenu(ctx context.Context, cart model.Cart) (map[int64]model.MenuItem, error) {
	ids := make([]int64, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.MenuItemID)
	}
	if len(ids) == 0 {
		return map[int64]model.MenuItem{}, nil
	}
	found, err := u.menuItems.FindByIDs(ctx, ids)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return found, nil
}

func buildCartOutput(cart model.Cart, items map[int64]model.MenuItem) (CartOutput, CartSummary, error) {
	out := CartOutput{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		VendorID:   cart.VendorID,
		Items:      make([]CartLineOutput, 0, len(cart.Items)),
		UpdatedAt:  cart.UpdatedAt,
	}
	summary := CartSummary{DistinctItems: len(cart.Items)}

	var ok bool
	for _, it := range cart.Items {
		if !it.ValidQuantity() {
			return CartOutput{}, CartSummary{}, NewHTTPError(http.StatusBadRequest, "Invalid quantity in cart")
		}
		line := CartLineOutput{ItemID: it.MenuItemID, Quantity: it.Quantity}
		if mi, found := items[it.MenuItemID]; found {
			mi := mi
			line.Item = &mi
			var lineTotal int64
			if lineTotal, ok = mulAmount(mi.Price, it.Quantity); ok {
				summary.Subtotal, ok = addAmount(summary.Subtotal, lineTotal)
			}
			if !ok {
				return CartOutput{}, CartSummary{}, NewHTTPError(http.StatusBadRequest, msgAmountTooLarge)
			}
		}
		summary.ItemCount += it.Quantity
		out.Items = append(out.Items, line)
	}

	return out, summary, nil
}
