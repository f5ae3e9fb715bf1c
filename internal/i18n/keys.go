// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Catalog
	KeyGenre                = "model.genre"
	KeyGenrePlural          = "model.genre.plural"
	KeyLicenseType          = "model.licensetype"
	KeyLicenseTypePlural    = "model.licensetype.plural"
	KeyBeatmaker            = "model.beatmaker"
	KeyBeatmakerPlural      = "model.beatmaker.plural"
	KeyBeat                 = "model.beat"
	KeyBeatPlural           = "model.beat.plural"
	KeyPlaylist             = "model.playlist"
	KeyPlaylistPlural       = "model.playlist.plural"
	KeyCartProduct          = "model.cartproduct"
	KeyCartProductPlural    = "model.cartproduct.plural"
	KeyCart                 = "model.cart"
	KeyCartPlural           = "model.cart.plural"
	KeyOrder                = "model.order"
	KeyOrderPlural          = "model.order.plural"
	KeyCustomer             = "model.customer"
	KeyCustomerPlural       = "model.customer.plural"
	KeyNotification         = "model.notification"
	KeyNotificationPlural   = "model.notification.plural"
	KeyCartProductDisplay   = "cartproduct.display"
	KeyNotificationDisplay  = "notification.display"
	KeyCustomerWishlistName = "customer.wishlist"

	// Orders
	KeyOrderStatusNew        = "order.status.new"
	KeyOrderStatusInProgress = "order.status.in_progress"
	KeyOrderStatusCompleted  = "order.status.completed"
	KeyOrderCreated          = "order.created"
	KeyOrderStatusChanged    = "order.status_changed"
	KeyOrderEmailSubject     = "order.email_subject"
)
