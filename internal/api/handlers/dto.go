package handlers

import (
	"motorbay/m1/internal/models"
	"motorbay/m1/internal/services"
)

// ListingResponse is a listing with its photo keys decoded out of the stored
// representation.
type ListingResponse struct {
	models.Listing
	Photos []string `json:"photos"`
}

func listingResponse(l *models.Listing) ListingResponse {
	return ListingResponse{Listing: *l, Photos: l.PhotoList()}
}

func listingResponses(items []models.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(items))
	for i := range items {
		out = append(out, listingResponse(&items[i]))
	}
	return out
}

// PagedListingsResponse mirrors services.PagedListings with decoded photos.
type PagedListingsResponse struct {
	Items      []ListingResponse `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

func pagedListingsResponse(p *services.PagedListings) PagedListingsResponse {
	return PagedListingsResponse{
		Items:      listingResponses(p.Items),
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
}

// FavouriteResponse pairs a favourite with its listing, photos decoded. A nil
// listing means it is no longer visible to the requester.
type FavouriteResponse struct {
	models.Favourite
	Listing *ListingResponse `json:"listing"`
}

func favouriteResponses(items []models.FavouriteWithListing) []FavouriteResponse {
	out := make([]FavouriteResponse, 0, len(items))
	for _, f := range items {
		resp := FavouriteResponse{Favourite: f.Favourite}
		if f.Listing != nil {
			lr := listingResponse(f.Listing)
			resp.Listing = &lr
		}
		out = append(out, resp)
	}
	return out
}
