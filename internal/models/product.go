package models

// ProductDoc es lo que está en Mongo (colección `products`).
// Tags son los nombres crudos; el vocabulario denso se arma al hacer fit.
type ProductDoc struct {
	ProductID  int      `json:"productId" bson:"productId"`
	Name       string   `json:"name" bson:"name"`
	Tags       []string `json:"tags" bson:"tags"`
	CategoryID int      `json:"categoryId" bson:"categoryId"`
	Active     bool     `json:"active" bson:"active"`
	InStock    bool     `json:"inStock" bson:"inStock"`
	CreatedAt  string   `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt  string   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// PurchaseDoc: par (cliente, producto) ya comprado. Solo sirve como filtro
// de exclusión al recomendar.
type PurchaseDoc struct {
	CustomerID int `json:"customerId" bson:"customerId"`
	ProductID  int `json:"productId" bson:"productId"`
}
