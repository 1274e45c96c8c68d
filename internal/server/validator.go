package server

import (
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// requestValidator はOpenAPI定義に沿ってリクエストを検証するミドルウェアを返す
//
// 定義に無いパスは検証せずginのルーティングに任せる。
func requestValidator(swagger *openapi3.T, onError func(c *gin.Context, message string, err error)) (gin.HandlerFunc, error) {
	// サーバーURLの一致は検証しない
	swagger.Servers = nil

	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("ルーターの作成に失敗: %w", err)
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			onError(c, validationMessage(err), err)
			return
		}

		c.Next()
	}, nil
}

// validationMessage は検証エラーを短いメッセージにする
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("パラメータ %s が不正です", reqErr.Parameter.Name)
		case reqErr.RequestBody != nil:
			return "リクエストボディが不正です"
		}
	}
	return "リクエストが不正です"
}
