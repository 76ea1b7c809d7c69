package api

import (
	"fmt"

	"investlab/internal/domain"
	"investlab/internal/options"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type quoteOptionRequest struct {
	ContractID string `json:"contractID" binding:"required"`
	// defaults to the catalog spot price
	UnderlyingPrice *float64 `json:"underlyingPrice" binding:"omitempty,gt=0"`
}

type quoteOptionResponse struct {
	Contract domain.OptionContract `json:"contract"`
	options.Quote
}

func (h ApiHandler) spot(price *float64) float64 {
	if price != nil {
		return *price
	}
	return h.Catalog.Spot()
}

func (h ApiHandler) contract(id string) (domain.OptionContract, error) {
	for _, c := range h.Catalog.Options {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.OptionContract{}, fmt.Errorf("%w: %s", domain.ErrUnknownContract, id)
}

func (h ApiHandler) quoteOption(c *gin.Context) {
	var requestBody quoteOptionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	contract, err := h.contract(requestBody.ContractID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, quoteOptionResponse{
		Contract: contract,
		Quote:    options.QuoteContract(contract, h.spot(requestBody.UnderlyingPrice), h.Config.RetentionFactor),
	})
}

type positionRequest struct {
	ContractID string              `json:"contractID" binding:"required"`
	Quantity   int                 `json:"quantity" binding:"required,gt=0"`
	Side       domain.PositionSide `json:"side" binding:"required,oneof=buy sell"`
}

type optionPayoffRequest struct {
	Positions []positionRequest `json:"positions" binding:"required,dive"`
	// zero values fall back to the default range around spot
	Low     float64 `json:"low" binding:"gte=0"`
	High    float64 `json:"high" binding:"gte=0"`
	Samples int     `json:"samples" binding:"gte=0,lte=1000"`
}

type optionPayoffResponse struct {
	Curve      []options.PayoffPoint `json:"curve"`
	Breakevens []float64             `json:"breakevens"`
	MaxProfit  float64               `json:"maxProfit"`
	MaxLoss    float64               `json:"maxLoss"`
}

func (h ApiHandler) optionPayoff(c *gin.Context) {
	var requestBody optionPayoffRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	positions := []domain.OptionPosition{}
	for _, p := range requestBody.Positions {
		contract, err := h.contract(p.ContractID)
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		positions = append(positions, domain.OptionPosition{
			ID:       uuid.New(),
			Contract: contract,
			Quantity: p.Quantity,
			Side:     p.Side,
		})
	}

	r := options.DefaultPriceRange(h.Catalog.Spot())
	if requestBody.High > 0 {
		r.Low = requestBody.Low
		r.High = requestBody.High
	}
	if requestBody.Samples > 0 {
		r.Samples = requestBody.Samples
	}

	curve, err := options.PayoffCurve(positions, r)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	c.JSON(200, newPayoffResponse(curve))
}

func newPayoffResponse(curve []options.PayoffPoint) optionPayoffResponse {
	out := optionPayoffResponse{
		Curve:      curve,
		Breakevens: options.Breakevens(curve),
	}
	for i, p := range curve {
		if i == 0 || p.Profit > out.MaxProfit {
			out.MaxProfit = p.Profit
		}
		if i == 0 || p.Profit < out.MaxLoss {
			out.MaxLoss = p.Profit
		}
	}
	return out
}

type createOptionSessionRequest struct {
	UnderlyingPrice *float64 `json:"underlyingPrice" binding:"omitempty,gt=0"`
	StartingCash    *float64 `json:"startingCash" binding:"omitempty,gte=0"`
}

type optionPositionView struct {
	domain.OptionPosition
	CostBasis decimal.Decimal `json:"costBasis"`
	PnL       decimal.Decimal `json:"pnl"`
	options.Quote
}

type optionSessionResponse struct {
	SessionID        uuid.UUID            `json:"sessionID"`
	Cash             decimal.Decimal      `json:"cash"`
	UnderlyingPrice  float64              `json:"underlyingPrice"`
	Positions        []optionPositionView `json:"positions"`
	UnrealizedPnL    decimal.Decimal      `json:"unrealizedPnL"`
	RealizedPnL      decimal.Decimal      `json:"realizedPnL"`
	TotalPnL         decimal.Decimal      `json:"totalPnL"`
	ExperiencePoints int                  `json:"experiencePoints"`
	Payoff           optionPayoffResponse `json:"payoff"`
}

func newOptionSessionResponse(id uuid.UUID, book *options.Book) (*optionSessionResponse, error) {
	positions := []optionPositionView{}
	for _, p := range book.Positions() {
		positions = append(positions, optionPositionView{
			OptionPosition: p,
			CostBasis:      p.CostBasis(),
			PnL:            book.PositionPnL(p),
			Quote:          book.Quote(p.Contract),
		})
	}

	curve, err := book.PayoffCurve(options.DefaultPriceRange(book.UnderlyingPrice()))
	if err != nil {
		return nil, err
	}

	return &optionSessionResponse{
		SessionID:        id,
		Cash:             book.Cash,
		UnderlyingPrice:  book.UnderlyingPrice(),
		Positions:        positions,
		UnrealizedPnL:    book.UnrealizedPnL(),
		RealizedPnL:      book.RealizedPnL(),
		TotalPnL:         book.TotalPnL(),
		ExperiencePoints: options.ExperiencePoints(book.TotalPnL()),
		Payoff:           newPayoffResponse(curve),
	}, nil
}

func (h ApiHandler) createOptionSession(c *gin.Context) {
	var requestBody createOptionSessionRequest
	if err := bindOptionalJSON(c, &requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	cash := h.Config.StartingCash
	if requestBody.StartingCash != nil {
		cash = *requestBody.StartingCash
	}
	book := options.NewBook(options.NewBookInput{
		Chain:           h.Catalog.Options,
		UnderlyingPrice: h.spot(requestBody.UnderlyingPrice),
		StartingCash:    decimal.NewFromFloat(cash),
		RetentionFactor: h.Config.RetentionFactor,
	})
	id := h.OptionSessions.add(book)
	sessionsStarted.WithLabelValues("options").Inc()

	out, err := newOptionSessionResponse(id, book)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, out)
}

// withBook runs fn on the session's book and responds with the book
// as it is afterwards
func (h ApiHandler) withBook(c *gin.Context, fn func(*options.Book) error) {
	var out *optionSessionResponse
	err := h.OptionSessions.with(c.Param("id"), func(book *options.Book) error {
		if err := fn(book); err != nil {
			return err
		}
		id, _ := uuid.Parse(c.Param("id"))
		var err error
		out, err = newOptionSessionResponse(id, book)
		return err
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, out)
}

func (h ApiHandler) getOptionSession(c *gin.Context) {
	h.withBook(c, func(*options.Book) error { return nil })
}

func (h ApiHandler) openOptionPosition(c *gin.Context) {
	var requestBody positionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	h.withBook(c, func(book *options.Book) error {
		_, err := book.OpenPosition(requestBody.ContractID, requestBody.Quantity, requestBody.Side)
		return err
	})
}

type closeOptionPositionRequest struct {
	PositionID uuid.UUID `json:"positionID" binding:"required"`
}

func (h ApiHandler) closeOptionPosition(c *gin.Context) {
	var requestBody closeOptionPositionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	h.withBook(c, func(book *options.Book) error {
		_, err := book.ClosePosition(requestBody.PositionID)
		return err
	})
}

type moveUnderlyingRequest struct {
	UnderlyingPrice float64 `json:"underlyingPrice" binding:"required,gt=0"`
}

func (h ApiHandler) moveUnderlying(c *gin.Context) {
	var requestBody moveUnderlyingRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	h.withBook(c, func(book *options.Book) error {
		book.SetUnderlyingPrice(requestBody.UnderlyingPrice)
		return nil
	})
}
