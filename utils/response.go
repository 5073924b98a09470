package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

type pagedResponse struct {
	Data interface{} `json:"data"`
	PageMeta
}

func JSONPage(ctx iris.Context, data interface{}, page, pageSize int, total int64) {
	ctx.JSON(pagedResponse{
		Data:     data,
		PageMeta: PageMeta{Page: page, PageSize: pageSize, Total: total},
	})
}
