package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Carts() CartRepository
	Catalog() CatalogRepository
	Directory() DirectoryRepository
	Jobs() JobRepository
}
