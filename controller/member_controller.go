/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/datajpa"
	"github.com/tomoncle/datajpa/dto"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/repository"
	"github.com/tomoncle/datajpa/repository/spec"
	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
)

const (
	memberKey       = "member"
	memberQualifier = "member"
	notExistsUser   = "not exists user"
)

var memberPageDefault = PageableDefault{Size: 12, Sort: types.By(types.DESC, "username")}

type MemberController struct {
	members repository.MemberRepository
	service datajpa.Service[entity.Member]
	paging  PagingConfig
}

func NewMemberController(members repository.MemberRepository, service datajpa.Service[entity.Member], paging PagingConfig) *MemberController {
	return &MemberController{members: members, service: service, paging: paging}
}

func (mc *MemberController) Register(r gin.IRouter) {
	r.GET("/members", mc.FindMembers)
	r.GET("/members/:id", mc.FindMember)
	r.GET("/members/domain/:id", BindEntity(mc.service, "id", memberKey), mc.FindDomainClassConverterMember)
}

// FindMember writes the username, or "not exists user" when the id is
// unknown.
func (mc *MemberController) FindMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: id must be a number", errBadRequest))
		return
	}
	m, err := mc.members.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.String(http.StatusOK, notExistsUser)
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.String(http.StatusOK, m.Username)
}

func (mc *MemberController) FindDomainClassConverterMember(c *gin.Context) {
	m, err := BoundEntity[entity.Member](c, memberKey)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.String(http.StatusOK, m.Username)
}

// FindMembers returns a page of MemberDto. The optional username and
// teamName parameters narrow the members listed.
func (mc *MemberController) FindMembers(c *gin.Context) {
	pageable, err := ParsePageable(c, memberQualifier, memberPageDefault, mc.paging)
	if err != nil {
		abortWithError(c, err)
		return
	}
	filter := repository.Specification[entity.Member](withTeam)
	if username := c.Query("username"); username != "" {
		filter = filter.And(spec.Username(username))
	}
	filter = filter.And(spec.TeamName(c.Query("teamName")))

	page, err := mc.members.FindPageBySpec(c.Request.Context(), filter, pageable)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MapPage(page, dto.NewMemberDto))
}

func withTeam(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Team")
}
